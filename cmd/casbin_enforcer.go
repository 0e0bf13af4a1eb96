//go:build casbin

package main

import (
	"log/slog"

	gormadapter "github.com/casbin/gorm-adapter/v3"
	_ "github.com/go-sql-driver/mysql"

	"github.com/CameronXie/credential-registry/internal/config"
	"github.com/CameronXie/credential-registry/internal/decisionmaker/casbin"
	"github.com/CameronXie/credential-registry/internal/enforcer"
)

// newPolicyRetriever connects the gorm adapter to MySQL and seeds the registry policies.
func newPolicyRetriever(cfg *config.Config) (*gormadapter.Adapter, error) {
	a, err := gormadapter.NewAdapter("mysql", cfg.MySQL.DSN())
	if err != nil {
		return nil, err
	}

	// TODO: skip rules that already exist so restarts against a populated database succeed.
	if err := casbin.SeedPolicies(a, cfg.AdminNames()); err != nil {
		return nil, err
	}

	return a, nil
}

// newEnforcer initializes a Casbin backed enforcer with policies stored in MySQL.
func newEnforcer(cfg *config.Config, logger *slog.Logger) (enforcer.Enforcer, error) {
	logger.Info("initializing enforcer with Casbin", "admins", len(cfg.AdminAccounts))

	policyRetriever, err := newPolicyRetriever(cfg)
	if err != nil {
		return nil, err
	}

	decisionMaker, err := casbin.NewDecisionMaker(casbin.RegistryModel, policyRetriever)
	if err != nil {
		return nil, err
	}

	return enforcer.NewEnforcer(decisionMaker), nil
}
