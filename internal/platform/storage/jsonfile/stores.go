package jsonfile

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"staffing/internal/domain/allocation"
	"staffing/internal/domain/employee"
)

const (
	EmployeesFile   = "employees_data.json"
	AllocationsFile = "project_allocations.json"
)

// Stores keeps both collections under one data directory.
type Stores struct {
	dir         string
	employees   *Collection[employee.Employee]
	allocations *Collection[allocation.Allocation]
}

func Open(dir string, logger *slog.Logger) *Stores {
	return &Stores{
		dir:         dir,
		employees:   NewCollection[employee.Employee](filepath.Join(dir, EmployeesFile), logger),
		allocations: NewCollection[allocation.Allocation](filepath.Join(dir, AllocationsFile), logger),
	}
}

func (s *Stores) LoadEmployees(ctx context.Context) []employee.Employee {
	return s.employees.Load()
}

func (s *Stores) AppendEmployee(ctx context.Context, emp employee.Employee) error {
	return s.employees.Append(emp)
}

func (s *Stores) LoadAllocations(ctx context.Context) []allocation.Allocation {
	return s.allocations.Load()
}

func (s *Stores) AppendAllocation(ctx context.Context, rec allocation.Allocation) error {
	return s.allocations.Append(rec)
}

func (s *Stores) AppendAllocations(ctx context.Context, recs []allocation.Allocation) error {
	return s.allocations.Append(recs...)
}

// Ping checks that the data directory exists or can be created.
func (s *Stores) Ping(ctx context.Context) error {
	return os.MkdirAll(s.dir, 0o755)
}

func (s *Stores) Close() {}
