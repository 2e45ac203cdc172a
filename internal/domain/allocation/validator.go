package allocation

import "context"

// TotalAllocation sums the allocation percentages recorded for employeeID.
func TotalAllocation(records []Allocation, employeeID string) int {
	total := 0
	for _, rec := range records {
		if rec.EmployeeID == employeeID {
			total += rec.Allocation
		}
	}
	return total
}

// Ledger is a per-employee total computed once from a snapshot of records.
type Ledger map[string]int

func NewLedger(records []Allocation) Ledger {
	l := make(Ledger)
	for _, rec := range records {
		l[rec.EmployeeID] += rec.Allocation
	}
	return l
}

func (l Ledger) Total(employeeID string) int {
	return l[employeeID]
}

func (l Ledger) Available(employeeID string) int {
	return MaxCapacity - l[employeeID]
}

// Fits reports whether pct can be added on top of the stored total and queued.
func (l Ledger) Fits(employeeID string, pct, queued int) bool {
	return l[employeeID]+queued+pct <= MaxCapacity
}

// Validator answers capacity questions against the current store contents.
// It never writes.
type Validator struct {
	store Store
}

func NewValidator(store Store) *Validator {
	return &Validator{store: store}
}

func (v *Validator) TotalAllocation(ctx context.Context, employeeID string) int {
	return TotalAllocation(v.store.LoadAllocations(ctx), employeeID)
}

// CanAllocate expects pct to be validated into [1,100] already; nothing is clamped.
func (v *Validator) CanAllocate(ctx context.Context, employeeID string, pct, queued int) bool {
	return v.TotalAllocation(ctx, employeeID)+queued+pct <= MaxCapacity
}

func (v *Validator) Ledger(ctx context.Context) Ledger {
	return NewLedger(v.store.LoadAllocations(ctx))
}
