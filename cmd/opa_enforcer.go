//go:build !casbin || opa

package main

import (
	"log/slog"

	"github.com/CameronXie/credential-registry/internal/config"
	"github.com/CameronXie/credential-registry/internal/enforcer"
	"github.com/CameronXie/credential-registry/internal/policyretriever"

	pdp "github.com/CameronXie/credential-registry/internal/decisionmaker/opa"
	pip "github.com/CameronXie/credential-registry/internal/infoprovider/opa"
	prp "github.com/CameronXie/credential-registry/internal/policyretriever/opa"
)

// adminRoles assigns the admin role to each configured admin username.
func adminRoles(admins []string) map[string][]string {
	roles := make(map[string][]string, len(admins))
	for _, admin := range admins {
		roles[admin] = []string{"admin"}
	}

	return roles
}

// newPolicyRetriever serves the built-in registry policy unless a policy file is configured.
func newPolicyRetriever(cfg *config.Config) policyretriever.PolicyRetriever {
	if cfg.PolicyFile != "" {
		return prp.NewFilePolicyRetriever(cfg.PolicyFile)
	}

	return prp.NewStaticPolicyRetriever(prp.RegistryPolicy)
}

// newEnforcer initializes an OPA backed enforcer. Users without an explicit role are treated as "user".
func newEnforcer(cfg *config.Config, logger *slog.Logger) (enforcer.Enforcer, error) {
	logger.Info("initializing enforcer with OPA", "admins", len(cfg.AdminAccounts), "policy_file", cfg.PolicyFile)

	decisionMaker := pdp.NewDecisionMaker(
		newPolicyRetriever(cfg),
		pip.NewStaticRoleProvider(adminRoles(cfg.AdminNames()), []string{"user"}),
		prp.RegistryQuery,
	)

	return enforcer.NewEnforcer(decisionMaker), nil
}
