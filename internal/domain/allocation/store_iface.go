package allocation

import (
	"context"

	"staffing/internal/domain/employee"
)

// Store is an append-only allocation record set.
// LoadAllocations never fails: unreadable data is reported as an empty set.
// AppendAllocations saves all records or none.
type Store interface {
	LoadAllocations(ctx context.Context) []Allocation
	AppendAllocation(ctx context.Context, rec Allocation) error
	AppendAllocations(ctx context.Context, recs []Allocation) error
}

// EmployeeSource is the read side of the employee store.
type EmployeeSource interface {
	LoadEmployees(ctx context.Context) []employee.Employee
}

// Recorder receives allocation outcomes; the metrics collector implements it.
type Recorder interface {
	AllocationAccepted(n int)
	AllocationRejected(reason string)
}

type noopRecorder struct{}

func (noopRecorder) AllocationAccepted(int)    {}
func (noopRecorder) AllocationRejected(string) {}
