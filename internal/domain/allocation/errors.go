package allocation

import (
	"errors"
	"fmt"
)

var (
	ErrMissingColumns = errors.New("CSV must contain the following columns: project_name, start_date, end_date, allocation, employee_id")
	ErrMalformedCSV   = errors.New("malformed CSV")
)

const (
	RejectCapacity   = "capacity"
	RejectValidation = "validation"
	RejectNotFound   = "not_found"
)

// CapacityError reports an allocation that would push an employee above MaxCapacity.
type CapacityError struct {
	EmployeeID string
	Name       string
	Current    int
	Requested  int
}

func (e *CapacityError) Error() string {
	who := e.Name
	if who == "" {
		who = "Employee " + e.EmployeeID
	}
	return fmt.Sprintf("Cannot allocate. %s is already allocated %d%%. This allocation would exceed 100%%.", who, e.Current)
}
