package employee

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"staffing/internal/validation"
)

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// ValidateRegistration reports every problem with reg; today bounds the joining date.
func ValidateRegistration(c Catalog, reg Registration, today time.Time) []validation.Issue {
	v := validation.New()

	if v.Required("employee_id", reg.EmployeeID, "Employee ID is required") && !c.idPattern().MatchString(reg.EmployeeID) {
		v.Add("employee_id", fmt.Sprintf("Employee ID must be in format '%s' followed by 5 digits (e.g., %s01418)", c.EmployeeIDPrefix, c.EmployeeIDPrefix))
	}

	v.Required("name", reg.Name, "Name is required")

	if v.Required("email", reg.Email, "Email is required") {
		email := strings.ToLower(strings.TrimSpace(reg.Email))
		if !strings.HasSuffix(email, c.EmailDomain) || len(email) == len(c.EmailDomain) {
			v.Add("email", "Email must end with "+c.EmailDomain)
		}
	}

	if v.Required("phone", reg.Phone, "Phone number is required") && !phonePattern.MatchString(reg.Phone) {
		v.Add("phone", "Phone number must be exactly 10 digits")
	}

	catalogSkills, knownDesignation := c.SkillsFor(reg.Designation)
	if v.Required("designation", reg.Designation, "Designation is required") && !knownDesignation {
		v.Add("designation", "Designation must be one of: "+strings.Join(c.DesignationNames(), ", "))
	}
	if v.Required("department", reg.Department, "Department is required") && !c.HasDepartment(reg.Department) {
		v.Add("department", "Department must be one of: "+strings.Join(c.Departments, ", "))
	}
	if v.Required("location", reg.Location, "Location is required") && !c.HasLocation(reg.Location) {
		v.Add("location", "Location must be one of: "+strings.Join(c.Locations, ", "))
	}

	if v.Required("date_of_joining", reg.DateOfJoining, "Date of joining is required") {
		joined, err := time.Parse(DateLayout, strings.TrimSpace(reg.DateOfJoining))
		switch {
		case err != nil:
			v.Add("date_of_joining", "Date of joining must be in YYYY-MM-DD format")
		case joined.After(dateOnly(today)):
			v.Add("date_of_joining", "Date of joining cannot be in the future")
		}
	}

	if reg.ExperienceYears <= 0 {
		v.Add("experience_years", "Experience years must be greater than 0")
	} else if reg.ExperienceYears > MaxExperienceYears {
		v.Add("experience_years", fmt.Sprintf("Experience years cannot exceed %g", MaxExperienceYears))
	}

	switch {
	case len(reg.Skills) == 0:
		v.Add("skills", "At least one skill must be selected")
	case len(reg.Skills) > MaxSkills:
		v.Add("skills", fmt.Sprintf("Maximum %d skills can be selected", MaxSkills))
	case knownDesignation:
		seen := make(map[string]bool, len(reg.Skills))
		for _, skill := range reg.Skills {
			if seen[skill] {
				v.Add("skills", fmt.Sprintf("Skill '%s' is listed more than once", skill))
				continue
			}
			seen[skill] = true
			if !contains(catalogSkills, skill) {
				v.Add("skills", fmt.Sprintf("Skill '%s' is not available for %s", skill, reg.Designation))
			}
		}
	}

	return v.Issues()
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
