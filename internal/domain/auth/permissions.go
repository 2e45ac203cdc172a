package auth

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

const (
	PermEmployeesRead    = "employees.read"
	PermEmployeesWrite   = "employees.write"
	PermAllocationsRead  = "allocations.read"
	PermAllocationsWrite = "allocations.write"
	PermAssistantUse     = "assistant.use"
	PermReportsRead      = "reports.read"
)

var DefaultPermissions = []string{
	PermEmployeesRead,
	PermEmployeesWrite,
	PermAllocationsRead,
	PermAllocationsWrite,
	PermAssistantUse,
	PermReportsRead,
}

// The employee role can only register; everything else is admin work.
var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermEmployeesWrite,
	},
	RoleAdmin: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermAllocationsRead,
		PermAllocationsWrite,
		PermAssistantUse,
		PermReportsRead,
	},
}

func HasPermission(role, perm string) bool {
	for _, p := range RolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

func ValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}
