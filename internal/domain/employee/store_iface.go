package employee

import "context"

// Store is an append-only employee record set.
// LoadEmployees never fails: unreadable data is reported as an empty set.
type Store interface {
	LoadEmployees(ctx context.Context) []Employee
	AppendEmployee(ctx context.Context, emp Employee) error
}
