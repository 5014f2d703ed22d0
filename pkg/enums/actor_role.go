package enums

import "fmt"

// ActorRole identifies who is acting on behalf of a company account.
type ActorRole string

const (
	ActorRoleCompanyAdmin  ActorRole = "company_admin"
	ActorRoleRecruiter     ActorRole = "recruiter"
	ActorRolePlatformAdmin ActorRole = "platform_admin"
)

var validActorRoles = []ActorRole{
	ActorRoleCompanyAdmin,
	ActorRoleRecruiter,
	ActorRolePlatformAdmin,
}

// String implements fmt.Stringer.
func (r ActorRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known ActorRole.
func (r ActorRole) IsValid() bool {
	for _, candidate := range validActorRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseActorRole converts raw input into an ActorRole.
func ParseActorRole(value string) (ActorRole, error) {
	for _, candidate := range validActorRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid actor role %q", value)
}
