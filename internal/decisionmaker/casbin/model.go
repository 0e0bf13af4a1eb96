package casbin

import (
	"fmt"

	"github.com/casbin/casbin/v2/persist"
)

const (
	AdminRole = "admin"
	UserRole  = "user"
)

// RegistryModel matches a subject's roles against path and method policies.
// Every subject implicitly holds UserRole: signup is open, so registered users
// have no g rules and policies granted to UserRole apply to any subject.
const RegistryModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (g(r.sub, p.sub) || p.sub == "` + UserRole + `") && r.obj == p.obj && r.act == p.act
`

var registryPolicies = [][]string{
	{UserRole, "/api/users/count", "get"},
	{AdminRole, "/api/users/count", "get"},
	{AdminRole, "/api/users", "delete"},
}

// SeedPolicies writes the registry permissions and binds each admin to AdminRole.
func SeedPolicies(adapter persist.Adapter, admins []string) error {
	for _, rule := range registryPolicies {
		if err := adapter.AddPolicy("p", "p", rule); err != nil {
			return fmt.Errorf("failed to add policy %v: %w", rule, err)
		}
	}

	for _, admin := range admins {
		if err := adapter.AddPolicy("g", "g", []string{admin, AdminRole}); err != nil {
			return fmt.Errorf("failed to bind admin %s: %w", admin, err)
		}
	}

	return nil
}
