package allocation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"staffing/internal/domain/employee"
	"staffing/internal/validation"
)

// Service owns every write to the allocation store. The capacity check and
// the append happen under one mutex so concurrent requests cannot both pass
// the check against the same stale total.
type Service struct {
	store     Store
	employees EmployeeSource
	recorder  Recorder
	now       func() time.Time

	mu sync.Mutex
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

func NewService(store Store, employees EmployeeSource, opts ...Option) *Service {
	s := &Service{
		store:     store,
		employees: employees,
		recorder:  noopRecorder{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Validator() *Validator {
	return NewValidator(s.store)
}

func (s *Service) List(ctx context.Context) []Allocation {
	return s.store.LoadAllocations(ctx)
}

func (s *Service) ListForEmployee(ctx context.Context, employeeID string) []Allocation {
	var out []Allocation
	for _, rec := range s.store.LoadAllocations(ctx) {
		if rec.EmployeeID == employeeID {
			out = append(out, rec)
		}
	}
	return out
}

// Allocate handles the manual form: the employee is picked by id.
func (s *Service) Allocate(ctx context.Context, req Request) (Allocation, error) {
	v := validation.New()
	employeeID := strings.TrimSpace(req.EmployeeID)
	v.Required("employee_id", employeeID, "Employee ID is required.")
	assignment, issues := ValidateTerms(Terms{
		ProjectName: req.ProjectName,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Percentage:  req.Allocation,
	})
	v.Merge(issues)
	if err := v.Err(); err != nil {
		s.recorder.AllocationRejected(RejectValidation)
		return Allocation{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	emp, ok := findEmployee(s.employees.LoadEmployees(ctx), employeeID)
	if !ok {
		s.recorder.AllocationRejected(RejectNotFound)
		return Allocation{}, &employee.NotFoundError{Query: employeeID}
	}
	return s.commitLocked(ctx, emp, assignment)
}

// AllocateEmployee commits a validated assignment for an already resolved employee.
func (s *Service) AllocateEmployee(ctx context.Context, emp employee.Employee, a Assignment) (Allocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(ctx, emp, a)
}

func (s *Service) commitLocked(ctx context.Context, emp employee.Employee, a Assignment) (Allocation, error) {
	current := TotalAllocation(s.store.LoadAllocations(ctx), emp.EmployeeID)
	if current+a.Percentage > MaxCapacity {
		s.recorder.AllocationRejected(RejectCapacity)
		return Allocation{}, &CapacityError{
			EmployeeID: emp.EmployeeID,
			Name:       emp.Name,
			Current:    current,
			Requested:  a.Percentage,
		}
	}

	rec := s.newRecord(emp, a)
	if err := s.store.AppendAllocation(ctx, rec); err != nil {
		return Allocation{}, fmt.Errorf("save allocation: %w", err)
	}
	s.recorder.AllocationAccepted(1)
	return rec, nil
}

func (s *Service) newRecord(emp employee.Employee, a Assignment) Allocation {
	emp.Skills = append([]string(nil), emp.Skills...)
	return Allocation{
		Employee:    emp,
		ProjectName: a.ProjectName,
		StartDate:   a.Start.Format(employee.DateLayout),
		EndDate:     a.End.Format(employee.DateLayout),
		Allocation:  a.Percentage,
		AllocatedAt: employee.NewTimestamp(s.now().Truncate(time.Microsecond)),
	}
}

func findEmployee(employees []employee.Employee, employeeID string) (employee.Employee, bool) {
	for _, emp := range employees {
		if emp.EmployeeID == employeeID {
			return emp, true
		}
	}
	return employee.Employee{}, false
}
