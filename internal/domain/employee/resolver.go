package employee

import "strings"

// Resolver maps a loose reference from conversation to one stored employee.
type Resolver interface {
	Resolve(query string, employees []Employee) (Employee, bool)
}

// SubstringResolver matches case-insensitively when either the stored name
// contains the query or the query contains the stored name, so "Abhi" finds
// "Abhinandan" and "allocate Abhinandan Rao" finds "Abhinandan Rao". The first
// employee in store order wins; ambiguous references are not disambiguated and
// a short stored name can capture unrelated queries.
type SubstringResolver struct{}

func (SubstringResolver) Resolve(query string, employees []Employee) (Employee, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Employee{}, false
	}
	for _, emp := range employees {
		name := strings.ToLower(emp.Name)
		if name == "" {
			continue
		}
		if strings.Contains(name, q) || strings.Contains(q, name) {
			return emp, true
		}
	}
	return Employee{}, false
}

// ExactIDFirst tries an exact employee_id match before delegating to Fallback.
type ExactIDFirst struct {
	Fallback Resolver
}

func (r ExactIDFirst) Resolve(query string, employees []Employee) (Employee, bool) {
	id := strings.ToUpper(strings.TrimSpace(query))
	for _, emp := range employees {
		if emp.EmployeeID == id {
			return emp, true
		}
	}
	fallback := r.Fallback
	if fallback == nil {
		fallback = SubstringResolver{}
	}
	return fallback.Resolve(query, employees)
}
