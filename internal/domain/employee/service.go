package employee

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"staffing/internal/validation"
)

type Service struct {
	store    Store
	catalog  Catalog
	resolver Resolver
	now      func() time.Time

	mu sync.Mutex
}

type Option func(*Service)

func WithResolver(r Resolver) Option {
	return func(s *Service) {
		if r != nil {
			s.resolver = r
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(store Store, catalog Catalog, opts ...Option) *Service {
	s := &Service{
		store:    store,
		catalog:  catalog,
		resolver: SubstringResolver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Catalog() Catalog {
	return s.catalog
}

func (s *Service) Resolver() Resolver {
	return s.resolver
}

// Register validates reg, rejects duplicate ids and appends the new record.
func (s *Service) Register(ctx context.Context, reg Registration) (Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg.EmployeeID = strings.TrimSpace(reg.EmployeeID)
	now := s.now()

	v := validation.New()
	v.Merge(ValidateRegistration(s.catalog, reg, now))
	if reg.EmployeeID != "" {
		for _, existing := range s.store.LoadEmployees(ctx) {
			if existing.EmployeeID == reg.EmployeeID {
				v.Add("employee_id", "Employee ID already exists")
				break
			}
		}
	}
	if err := v.Err(); err != nil {
		return Employee{}, err
	}

	skills := append([]string(nil), reg.Skills...)
	emp := Employee{
		EmployeeID:      reg.EmployeeID,
		Name:            strings.TrimSpace(reg.Name),
		Email:           strings.ToLower(strings.TrimSpace(reg.Email)),
		Phone:           reg.Phone,
		Designation:     reg.Designation,
		Department:      reg.Department,
		DateOfJoining:   strings.TrimSpace(reg.DateOfJoining),
		Location:        reg.Location,
		ExperienceYears: reg.ExperienceYears,
		Skills:          skills,
		SkillsCount:     len(skills),
		CreatedAt:       NewTimestamp(now.Truncate(time.Microsecond)),
	}
	if err := s.store.AppendEmployee(ctx, emp); err != nil {
		return Employee{}, fmt.Errorf("save employee: %w", err)
	}
	return emp, nil
}

func (s *Service) List(ctx context.Context) []Employee {
	return s.store.LoadEmployees(ctx)
}

func (s *Service) Get(ctx context.Context, employeeID string) (Employee, error) {
	for _, emp := range s.store.LoadEmployees(ctx) {
		if emp.EmployeeID == employeeID {
			return emp, nil
		}
	}
	return Employee{}, &NotFoundError{Query: employeeID}
}

// Resolve finds the employee a free-text name refers to.
func (s *Service) Resolve(ctx context.Context, query string) (Employee, error) {
	emp, ok := s.resolver.Resolve(query, s.store.LoadEmployees(ctx))
	if !ok {
		return Employee{}, &NotFoundError{Query: query}
	}
	return emp, nil
}
