package employee

// DateLayout is the only accepted calendar date format (ISO 8601 date).
const DateLayout = "2006-01-02"

const (
	MaxSkills          = 20
	MaxExperienceYears = 50.0
)

// Employee is persisted as a flat record; field names are part of the on-disk format.
type Employee struct {
	EmployeeID      string    `json:"employee_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Designation     string    `json:"designation"`
	Department      string    `json:"department"`
	DateOfJoining   string    `json:"date_of_joining"`
	Location        string    `json:"location"`
	ExperienceYears float64   `json:"experience_years"`
	Skills          []string  `json:"skills"`
	SkillsCount     int       `json:"skills_count"`
	CreatedAt       Timestamp `json:"created_at"`
}

type Registration struct {
	EmployeeID      string   `json:"employee_id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	Designation     string   `json:"designation"`
	Department      string   `json:"department"`
	DateOfJoining   string   `json:"date_of_joining"`
	Location        string   `json:"location"`
	ExperienceYears float64  `json:"experience_years"`
	Skills          []string `json:"skills"`
}

func (e Employee) HasSkill(skill string) bool {
	for _, s := range e.Skills {
		if s == skill {
			return true
		}
	}
	return false
}
