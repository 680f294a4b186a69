package core

// Roles carried by the upstream gateway's identity headers. Each portal of
// the institute maps to one.
const (
	RoleAdmin    = "admin"
	RoleLecturer = "lecturer"
	RoleStudent  = "student"
)

var rolePriorities = map[string]int{
	RoleAdmin:    30,
	RoleLecturer: 20,
	RoleStudent:  10,
}

func RolePriority(role string) int {
	return rolePriorities[role]
}

func MaxRolePriority(roles []string) int {
	var max int
	for _, role := range roles {
		if RolePriority(role) > max {
			max = RolePriority(role)
		}
	}
	return max
}

// Identity is the authenticated caller as asserted by the fronting gateway.
// Authentication itself is delegated; the app only enforces roles.
type Identity struct {
	ID    string
	Roles []string
}

func (id Identity) hasRole(role string) bool {
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (id Identity) IsAdmin() bool    { return id.hasRole(RoleAdmin) }
func (id Identity) IsLecturer() bool { return id.hasRole(RoleLecturer) }
func (id Identity) IsStudent() bool  { return id.hasRole(RoleStudent) }
