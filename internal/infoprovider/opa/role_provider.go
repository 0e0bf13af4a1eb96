package opa

import (
	"fmt"

	"github.com/CameronXie/credential-registry/internal/infoprovider"
)

type staticRoleProvider struct {
	roles        map[string][]string
	defaultRoles []string
}

// GetRoles returns the roles assigned to id, falling back to the default roles
// for subjects without an explicit assignment.
// It returns an error if neither exists.
func (p *staticRoleProvider) GetRoles(id string) ([]string, error) {
	if roles, ok := p.roles[id]; ok {
		return roles, nil
	}

	if len(p.defaultRoles) > 0 {
		return p.defaultRoles, nil
	}

	return nil, fmt.Errorf("user %s not found", id)
}

// NewStaticRoleProvider initializes an InfoProvider from fixed role assignments.
// Registered users are not known in advance, so defaultRoles covers everyone else.
func NewStaticRoleProvider(roles map[string][]string, defaultRoles []string) infoprovider.InfoProvider {
	return &staticRoleProvider{roles: roles, defaultRoles: defaultRoles}
}
