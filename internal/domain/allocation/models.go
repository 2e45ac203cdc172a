package allocation

import (
	"time"

	"staffing/internal/domain/employee"
)

// MaxCapacity is the ceiling on an employee's summed allocation percentage.
const MaxCapacity = 100

// Allocation is a denormalized copy of the employee at allocation time plus the project terms.
type Allocation struct {
	employee.Employee
	ProjectName string             `json:"project_name"`
	StartDate   string             `json:"start_date"`
	EndDate     string             `json:"end_date"`
	Allocation  int                `json:"allocation"`
	AllocatedAt employee.Timestamp `json:"allocated_at"`
}

// Terms are the raw, not yet validated project terms of one allocation attempt.
type Terms struct {
	ProjectName string
	StartDate   string
	EndDate     string
	Percentage  *float64
}

// Assignment is a validated set of terms.
type Assignment struct {
	ProjectName string
	Start       time.Time
	End         time.Time
	Percentage  int
}

// Request is the manual allocation form.
type Request struct {
	EmployeeID  string   `json:"employee_id"`
	ProjectName string   `json:"project_name"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Allocation  *float64 `json:"allocation"`
}

type RowError struct {
	Row        int      `json:"row"`
	EmployeeID string   `json:"employee_id,omitempty"`
	Messages   []string `json:"messages"`
}

type ImportResult struct {
	Rows        int          `json:"rows"`
	Imported    int          `json:"imported"`
	Allocations []Allocation `json:"allocations"`
	Errors      []RowError   `json:"errors"`
}
