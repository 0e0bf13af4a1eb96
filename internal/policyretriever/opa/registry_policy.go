package opa

import "github.com/CameronXie/credential-registry/internal/policyretriever"

// RegistryQuery is the Rego query answering whether a request is allowed.
const RegistryQuery = "data.registry.allow"

// RegistryPolicy grants every user read access to the user count and lets
// admins clear the registry.
const RegistryPolicy = `
package registry

role_permissions := {
    "user": [{"action": "get", "resource": "/api/users/count"}],
    "admin": [
        {"action": "get", "resource": "/api/users/count"},
        {"action": "delete", "resource": "/api/users"},
    ],
}

default allow = false

allow {
    r := input.roles[_]
    p := role_permissions[r][_]
    p == {"action": input.action, "resource": input.resource}
}
`

type staticPolicyRetriever struct {
	policy string
}

// GetPolicy returns the policy the retriever was created with.
func (p *staticPolicyRetriever) GetPolicy() (string, error) {
	return p.policy, nil
}

// NewStaticPolicyRetriever creates a PolicyRetriever serving a fixed policy.
func NewStaticPolicyRetriever(policy string) policyretriever.PolicyRetriever {
	return &staticPolicyRetriever{policy: policy}
}
