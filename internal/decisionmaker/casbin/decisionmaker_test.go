package casbin

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/persist"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/CameronXie/credential-registry/internal/decisionmaker"
)

const (
	policyPath = "testdata/policy.csv"
)

// mockEnforcer is a mock implementation of the casbin.IEnforcer interface used for testing purposes.
type mockEnforcer struct {
	casbin.IEnforcer
	mock.Mock
}

func (e *mockEnforcer) LoadPolicy() error {
	args := e.Called()
	return args.Error(0)
}

func (e *mockEnforcer) Enforce(rvals ...any) (bool, error) {
	args := e.Called(rvals...)
	return args.Bool(0), args.Error(1)
}

// mockAdapter records the policies written through persist.Adapter.
type mockAdapter struct {
	persist.Adapter
	mock.Mock
}

func (a *mockAdapter) AddPolicy(sec string, ptype string, rule []string) error {
	args := a.Called(sec, ptype, rule)
	return args.Error(0)
}

func TestDecisionMaker_MakeDecision(t *testing.T) {
	request := &decisionmaker.DecisionRequest{
		Resource: "/api/users",
		Action:   "delete",
		Subject:  "root",
	}

	enforcer := new(mockEnforcer)
	enforcer.On("LoadPolicy").Return(nil)
	enforcer.On(
		"Enforce",
		request.Subject, request.Resource, request.Action,
	).Return(true, nil)

	decisionMaker := decisionMaker{enforcer: enforcer}
	decision, err := decisionMaker.MakeDecision(context.TODO(), request)

	assert.True(t, decision)
	assert.NoError(t, err)
	enforcer.AssertCalled(t, "Enforce", request.Subject, request.Resource, request.Action)
	enforcer.AssertNumberOfCalls(t, "LoadPolicy", 1)
	enforcer.AssertNumberOfCalls(t, "Enforce", 1)
}

func TestDecisionMaker_MakeDecision_LoadPolicyError(t *testing.T) {
	enforcer := new(mockEnforcer)
	enforcer.On("LoadPolicy").Return(errors.New("db down"))

	decisionMaker := decisionMaker{enforcer: enforcer}
	decision, err := decisionMaker.MakeDecision(context.TODO(), &decisionmaker.DecisionRequest{})

	assert.False(t, decision)
	assert.EqualError(t, err, "failed to load policy: db down")
	enforcer.AssertNotCalled(t, "Enforce")
}

func TestDecisionMaker_MakeDecision_CancelledContext(t *testing.T) {
	enforcer := new(mockEnforcer)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	decisionMaker := decisionMaker{enforcer: enforcer}
	decision, err := decisionMaker.MakeDecision(ctx, &decisionmaker.DecisionRequest{})

	assert.False(t, decision)
	assert.ErrorIs(t, err, context.Canceled)
	enforcer.AssertNotCalled(t, "LoadPolicy")
}

func TestNewDecisionMaker_InvalidModel(t *testing.T) {
	_, err := NewDecisionMaker("", fileadapter.NewAdapter(policyPath))

	assert.ErrorContains(t, err, "failed to parse model")
}

func TestNewDecisionMaker(t *testing.T) {
	d, err := NewDecisionMaker(RegistryModel, fileadapter.NewAdapter(policyPath))
	assert.NoError(t, err)
	assert.NotNil(t, d)

	cases := map[string]struct {
		request        *decisionmaker.DecisionRequest
		expectDecision bool
	}{
		"user reads count": {
			request:        &decisionmaker.DecisionRequest{Subject: "testuser", Resource: "/api/users/count", Action: "get"},
			expectDecision: true,
		},
		"user clears registry": {
			request:        &decisionmaker.DecisionRequest{Subject: "testuser", Resource: "/api/users", Action: "delete"},
			expectDecision: false,
		},
		"admin clears registry": {
			request:        &decisionmaker.DecisionRequest{Subject: "root", Resource: "/api/users", Action: "delete"},
			expectDecision: true,
		},
		"unknown route": {
			request:        &decisionmaker.DecisionRequest{Subject: "root", Resource: "/api/users", Action: "get"},
			expectDecision: false,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			decision, err := d.MakeDecision(context.TODO(), tc.request)
			assert.Equal(t, tc.expectDecision, decision)
			assert.NoError(t, err)
		})
	}
}

func TestRegistryModel_ImplicitUserRole(t *testing.T) {
	assert.Contains(t, RegistryModel, fmt.Sprintf("p.sub == %q", UserRole))

	adapter := fileadapter.NewAdapter(policyPath)
	d, err := NewDecisionMaker(RegistryModel, adapter)
	assert.NoError(t, err)

	for _, subject := range []string{"testuser", "someone-else", AdminRole} {
		decision, err := d.MakeDecision(context.TODO(), &decisionmaker.DecisionRequest{
			Subject:  subject,
			Resource: "/api/users/count",
			Action:   "get",
		})
		assert.NoError(t, err)
		assert.True(t, decision, subject)
	}
}

func TestSeedPolicies(t *testing.T) {
	cases := map[string]struct {
		addErr      error
		expectedErr string
	}{
		"success": {},
		"adapter error": {
			addErr:      errors.New("write failed"),
			expectedErr: "failed to add policy [user /api/users/count get]: write failed",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			adapter := new(mockAdapter)
			adapter.On("AddPolicy", mock.Anything, mock.Anything, mock.Anything).Return(tc.addErr)

			err := SeedPolicies(adapter, []string{"root"})

			if tc.expectedErr != "" {
				assert.EqualError(t, err, tc.expectedErr)
				adapter.AssertNumberOfCalls(t, "AddPolicy", 1)
				return
			}

			assert.NoError(t, err)
			adapter.AssertNumberOfCalls(t, "AddPolicy", len(registryPolicies)+1)
			adapter.AssertCalled(t, "AddPolicy", "g", "g", []string{"root", AdminRole})
		})
	}
}
