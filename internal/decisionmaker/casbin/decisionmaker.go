package casbin

import (
	"context"
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/persist"

	"github.com/CameronXie/credential-registry/internal/decisionmaker"
)

type decisionMaker struct {
	enforcer casbin.IEnforcer
}

// MakeDecision reloads the policy so changes made directly in the adapter's storage are seen,
// then checks the subject, resource and action against it.
func (d *decisionMaker) MakeDecision(ctx context.Context, req *decisionmaker.DecisionRequest) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	if err := d.enforcer.LoadPolicy(); err != nil {
		return false, fmt.Errorf("failed to load policy: %w", err)
	}

	return d.enforcer.Enforce(req.Subject, req.Resource, req.Action)
}

// NewDecisionMaker creates a DecisionMaker from a Casbin model definition and a policy adapter.
func NewDecisionMaker(config string, policyRepo persist.Adapter) (decisionmaker.DecisionMaker, error) {
	m, err := model.NewModelFromString(config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m, policyRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to create enforcer: %w", err)
	}

	return &decisionMaker{enforcer: enforcer}, nil
}
