package identity

import "strings"

// ActorContext is the resolved caller of a request: operator identity plus the
// role set and department affinities the JWT middleware extracted from claims.
//
// Authorization is a set of pure functions over this context so the full
// role/department matrix is testable without storage.
type ActorContext struct {
	OperatorID    string
	Username      string
	Roles         []RoleKind
	Department    string
	HodDepartment string
}

// HasRole checks if the actor holds a specific role
func (a ActorContext) HasRole(role RoleKind) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsSuperAdmin returns true for unrestricted administrators
func (a ActorContext) IsSuperAdmin() bool {
	return a.HasRole(RoleSuperAdmin)
}

// operatesDepartment reports whether the actor is a department operator (or
// holds the hr role) scoped to the given department.
func (a ActorContext) operatesDepartment(department string) bool {
	department = strings.ToUpper(strings.TrimSpace(department))
	if a.HasRole(RoleDepartmentOperator) && a.Department == department {
		return true
	}
	if a.HasRole(RoleHr) && department == DepartmentHR {
		return true
	}
	return false
}

// isAccountsOperator reports whether the actor operates the accounts department
func (a ActorContext) isAccountsOperator() bool {
	return a.HasRole(RoleDepartmentOperator) && a.Department == DepartmentAccounts
}

// isAcademicsOperator reports whether the actor operates the academics department
func (a ActorContext) isAcademicsOperator() bool {
	return a.HasRole(RoleDepartmentOperator) && a.Department == DepartmentAcademics
}

// CanCreateDue checks whether the actor may record a due for the given department
func CanCreateDue(actor ActorContext, department string) bool {
	if actor.IsSuperAdmin() {
		return true
	}
	return actor.operatesDepartment(department)
}

// ForcesFacultyPersonType returns true when due creation by this actor must
// target faculty records (the HR rule).
func ForcesFacultyPersonType(actor ActorContext) bool {
	if actor.HasRole(RoleHr) {
		return true
	}
	return actor.HasRole(RoleDepartmentOperator) && actor.Department == DepartmentHR
}

// DefaultsScholarshipDueType returns true when a missing due type on create
// defaults to scholarship for this actor.
func DefaultsScholarshipDueType(actor ActorContext) bool {
	return actor.HasRole(RoleDepartmentOperator) && actor.Department == DepartmentScholarship
}

// CanMarkPayment checks whether the actor may record payments. Only accounts
// collects money.
func CanMarkPayment(actor ActorContext) bool {
	return actor.IsSuperAdmin() || actor.isAccountsOperator()
}

// CanClearRegular checks whether the actor may clear a due of the given
// department through the regular, payment-based path.
func CanClearRegular(actor ActorContext, department string) bool {
	if actor.IsSuperAdmin() {
		return true
	}
	return actor.operatesDepartment(department)
}

// CanClearByPermission checks whether the actor may resolve a due of the given
// department on documentary evidence. Only accounts confirms documentation, and
// only accounts' and scholarship's pending dues are eligible.
func CanClearByPermission(actor ActorContext, department string) bool {
	if !actor.IsSuperAdmin() && !actor.isAccountsOperator() {
		return false
	}
	department = strings.ToUpper(strings.TrimSpace(department))
	return department == DepartmentAccounts || department == DepartmentScholarship
}

// HasCrossDepartmentVisibility returns true for the roles exempt from
// department scoping on reads.
func HasCrossDepartmentVisibility(actor ActorContext) bool {
	return actor.IsSuperAdmin() || actor.isAccountsOperator() || actor.isAcademicsOperator()
}

// CanViewDepartment checks whether the actor may list dues of the given department
func CanViewDepartment(actor ActorContext, department string) bool {
	if HasCrossDepartmentVisibility(actor) {
		return true
	}
	department = strings.ToUpper(strings.TrimSpace(department))
	if actor.operatesDepartment(department) {
		return true
	}
	if actor.HasRole(RoleHod) && actor.HodDepartment == department {
		return true
	}
	return false
}

// VisibleDepartments returns the departments the actor may read. When all is
// true the actor sees every department and the slice is empty.
func VisibleDepartments(actor ActorContext) (departments []string, all bool) {
	if HasCrossDepartmentVisibility(actor) {
		return nil, true
	}

	seen := make(map[string]bool)
	add := func(d string) {
		if d != "" && !seen[d] {
			seen[d] = true
			departments = append(departments, d)
		}
	}

	if actor.HasRole(RoleDepartmentOperator) {
		add(actor.Department)
	}
	if actor.HasRole(RoleHr) {
		add(DepartmentHR)
	}
	if actor.HasRole(RoleHod) {
		add(actor.HodDepartment)
	}

	return departments, false
}
