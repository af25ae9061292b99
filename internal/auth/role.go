package auth

import "fmt"

// Role tags which principal table a token refers to. It is set once from
// the token's role claim and carried alongside the resolved row, never
// re-derived from the row itself.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleMechanic Role = "mechanic"
	RoleAdmin    Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleMechanic, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}
