package reports

import (
	"sort"

	"staffing/internal/domain/allocation"
	"staffing/internal/domain/employee"
)

type ProjectTotal struct {
	Project         string `json:"project"`
	TotalAllocation int    `json:"totalAllocation"`
	Members         int    `json:"members"`
}

type Summary struct {
	TotalEmployees int            `json:"totalEmployees"`
	Departments    int            `json:"departments"`
	Designations   int            `json:"designations"`
	Allocations    int            `json:"allocations"`
	FullyAllocated int            `json:"fullyAllocated"`
	Unallocated    int            `json:"unallocated"`
	ByDepartment   map[string]int `json:"byDepartment"`
	ByDesignation  map[string]int `json:"byDesignation"`
	ProjectTotals  []ProjectTotal `json:"projectTotals"`
}

// BuildSummary aggregates the registry and the allocation ledger.
// Projects are ordered by total allocation, then name.
func BuildSummary(employees []employee.Employee, records []allocation.Allocation) Summary {
	s := Summary{
		TotalEmployees: len(employees),
		Allocations:    len(records),
		ByDepartment:   map[string]int{},
		ByDesignation:  map[string]int{},
		ProjectTotals:  []ProjectTotal{},
	}
	for _, emp := range employees {
		s.ByDepartment[emp.Department]++
		s.ByDesignation[emp.Designation]++
	}
	s.Departments = len(s.ByDepartment)
	s.Designations = len(s.ByDesignation)

	ledger := allocation.NewLedger(records)
	for _, emp := range employees {
		switch total := ledger.Total(emp.EmployeeID); {
		case total >= allocation.MaxCapacity:
			s.FullyAllocated++
		case total == 0:
			s.Unallocated++
		}
	}

	index := map[string]int{}
	members := map[string]map[string]struct{}{}
	for _, rec := range records {
		i, ok := index[rec.ProjectName]
		if !ok {
			i = len(s.ProjectTotals)
			index[rec.ProjectName] = i
			s.ProjectTotals = append(s.ProjectTotals, ProjectTotal{Project: rec.ProjectName})
			members[rec.ProjectName] = map[string]struct{}{}
		}
		s.ProjectTotals[i].TotalAllocation += rec.Allocation
		members[rec.ProjectName][rec.EmployeeID] = struct{}{}
	}
	for i := range s.ProjectTotals {
		s.ProjectTotals[i].Members = len(members[s.ProjectTotals[i].Project])
	}
	sort.SliceStable(s.ProjectTotals, func(i, j int) bool {
		if s.ProjectTotals[i].TotalAllocation != s.ProjectTotals[j].TotalAllocation {
			return s.ProjectTotals[i].TotalAllocation > s.ProjectTotals[j].TotalAllocation
		}
		return s.ProjectTotals[i].Project < s.ProjectTotals[j].Project
	})
	return s
}
