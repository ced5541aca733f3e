package domain

import dErrors "innoport/pkg/domain-errors"

// Role is the closed set of portal roles. A user holds exactly one role,
// assigned at sign-up and immutable afterwards.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleResearcher Role = "researcher"
	RoleStartup    Role = "startup"
	RoleInvestor   Role = "investor"
)

// Roles lists every valid role, in a stable order, for exhaustive checks.
func Roles() []Role {
	return []Role{RoleAdmin, RoleResearcher, RoleStartup, RoleInvestor}
}

// ParseRole validates a raw role string at the trust boundary.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleAdmin, RoleResearcher, RoleStartup, RoleInvestor:
		return Role(raw), nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown role")
}

// Valid reports whether r belongs to the closed set.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}
