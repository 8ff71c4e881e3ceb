package roles

// Role is the permission level of an identity.
type Role string

const (
	Client   Role = "client"
	Operator Role = "operator"
	Admin    Role = "admin"
)

type HierarchyLevel int

const (
	ClientLevel   HierarchyLevel = 1
	OperatorLevel HierarchyLevel = 2
	AdminLevel    HierarchyLevel = 3
)

func (r Role) GetHierarchyLevel() HierarchyLevel {
	switch r {
	case Client:
		return ClientLevel
	case Operator:
		return OperatorLevel
	case Admin:
		return AdminLevel
	default:
		return ClientLevel
	}
}

// HasPermission reports whether r is at least requiredRole.
func (r Role) HasPermission(requiredRole Role) bool {
	return r.GetHierarchyLevel() >= requiredRole.GetHierarchyLevel()
}

func (r Role) IsValid() bool {
	switch r {
	case Client, Operator, Admin:
		return true
	default:
		return false
	}
}

// IsRestricted reports whether the role only sees the rows of its assigned client.
func (r Role) IsRestricted() bool {
	return !r.HasPermission(Operator)
}

func (r Role) String() string {
	return string(r)
}
