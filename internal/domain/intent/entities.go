package intent

import (
	"fmt"
	"math"
	"strings"

	"staffing/internal/domain/allocation"
	"staffing/internal/validation"
)

// Entity values arrive from a model and are checked by type before use.
// Keys outside an intent's schema are ignored; known keys with the wrong
// JSON type are reported.

type LookupSlots struct {
	EmployeeName string
}

type SearchSlots struct {
	Designation      string
	Skills           []string
	AllocationNeeded int
}

type AllocateSlots struct {
	EmployeeName string
	Terms        allocation.Terms
}

func DecodeLookup(entities map[string]any) (LookupSlots, []validation.Issue) {
	v := validation.New()
	name, _ := stringSlot(v, entities, "employee_name")
	if name == "" {
		v.Add("employee_name", "Could not identify an employee name in your query for this type of question.")
	}
	return LookupSlots{EmployeeName: name}, v.Issues()
}

func DecodeSearch(entities map[string]any) (SearchSlots, []validation.Issue) {
	v := validation.New()
	var out SearchSlots

	designation, _ := stringSlot(v, entities, "designation")
	if designation == "" && !v.HasIssues() {
		v.Add("designation", "Please specify a designation for the candidate search.")
	}
	out.Designation = designation

	switch raw := entities["skills"].(type) {
	case nil:
	case []any:
		seen := make(map[string]struct{}, len(raw))
		for _, item := range raw {
			skill, isString := item.(string)
			if !isString {
				v.Add("skills", "Skills must be a list of names.")
				break
			}
			skill = strings.TrimSpace(skill)
			if skill == "" {
				continue
			}
			if _, dup := seen[skill]; dup {
				continue
			}
			seen[skill] = struct{}{}
			out.Skills = append(out.Skills, skill)
		}
	default:
		v.Add("skills", "Skills must be a list of names.")
	}

	switch raw := entities["allocation_needed"].(type) {
	case nil:
	case float64:
		if raw < 0 || raw > allocation.MaxCapacity || raw != math.Trunc(raw) {
			v.Add("allocation_needed", "Allocation needed must be a whole number between 0 and 100.")
		} else {
			out.AllocationNeeded = int(raw)
		}
	default:
		v.Add("allocation_needed", "Allocation needed must be a whole number between 0 and 100.")
	}

	return out, v.Issues()
}

func DecodeAllocate(entities map[string]any) (AllocateSlots, []validation.Issue) {
	v := validation.New()
	var out AllocateSlots

	name, _ := stringSlot(v, entities, "employee_name")
	if name == "" && !v.HasIssues() {
		v.Add("employee_name", "Employee name is missing.")
	}
	out.EmployeeName = name

	project, _ := stringSlot(v, entities, "project_name")
	start, _ := stringSlot(v, entities, "start_date")
	end, _ := stringSlot(v, entities, "end_date")
	out.Terms = allocation.Terms{ProjectName: project, StartDate: start, EndDate: end}

	switch raw := entities["allocation"].(type) {
	case nil:
	case float64:
		out.Terms.Percentage = &raw
	default:
		invalid := -1.0
		out.Terms.Percentage = &invalid
	}
	return out, v.Issues()
}

// stringSlot reads key as a trimmed string. A missing or null key yields ""
// and true; any other JSON type is reported and yields false.
func stringSlot(v *validation.Validator, entities map[string]any, key string) (string, bool) {
	raw, present := entities[key]
	if !present || raw == nil {
		return "", true
	}
	s, ok := raw.(string)
	if !ok {
		v.Add(key, fmt.Sprintf("Entity %s must be text.", key))
		return "", false
	}
	return strings.TrimSpace(s), true
}
