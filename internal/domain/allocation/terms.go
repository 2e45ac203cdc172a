package allocation

import (
	"math"
	"strings"
	"time"

	"staffing/internal/domain/employee"
	"staffing/internal/validation"
)

// ValidateTerms checks every term and returns all problems at once.
func ValidateTerms(t Terms) (Assignment, []validation.Issue) {
	v := validation.New()
	var out Assignment

	if v.Required("project_name", t.ProjectName, "Project name is missing.") {
		out.ProjectName = strings.TrimSpace(t.ProjectName)
	}

	start, startOK := parseDate(v, "start_date", t.StartDate, "Start date")
	end, endOK := parseDate(v, "end_date", t.EndDate, "End date")
	if startOK && endOK && start.After(end) {
		v.Add("start_date", "Start date cannot be after end date.")
	}
	out.Start, out.End = start, end

	if pct, ok := percentage(v, t.Percentage); ok {
		out.Percentage = pct
	}

	return out, v.Issues()
}

func parseDate(v *validation.Validator, field, raw, label string) (time.Time, bool) {
	if strings.TrimSpace(raw) == "" {
		v.Add(field, label+" is missing.")
		return time.Time{}, false
	}
	parsed, err := time.Parse(employee.DateLayout, strings.TrimSpace(raw))
	if err != nil {
		v.Add(field, label+" format is invalid. Please use YYYY-MM-DD.")
		return time.Time{}, false
	}
	return parsed, true
}

func percentage(v *validation.Validator, raw *float64) (int, bool) {
	if raw == nil {
		v.Add("allocation", "Allocation percentage is missing.")
		return 0, false
	}
	value := *raw
	if math.IsNaN(value) || value < 1 || value > MaxCapacity {
		v.Add("allocation", "Allocation percentage must be a number between 1 and 100.")
		return 0, false
	}
	if value != math.Trunc(value) {
		v.Add("allocation", "Allocation percentage must be a whole number.")
		return 0, false
	}
	return int(value), true
}
