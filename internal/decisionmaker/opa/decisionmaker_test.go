package opa

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/CameronXie/credential-registry/internal/decisionmaker"
	infoprovider "github.com/CameronXie/credential-registry/internal/infoprovider/opa"
	policyretriever "github.com/CameronXie/credential-registry/internal/policyretriever/opa"
)

type MockPolicyRetriever struct {
	mock.Mock
}

func (m *MockPolicyRetriever) GetPolicy() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

type MockInfoProvider struct {
	mock.Mock
}

func (m *MockInfoProvider) GetRoles(id string) ([]string, error) {
	args := m.Called(id)
	return args.Get(0).([]string), args.Error(1)
}

func TestMakeDecision(t *testing.T) {
	roles := []string{"admin"}

	cases := map[string]struct {
		mockPolicy string
		errPolicy  error
		mockRoles  []string
		errRoles   error
		expected   bool
		wantErr    string
	}{
		"Success": {
			mockPolicy: policyretriever.RegistryPolicy,
			mockRoles:  roles,
			expected:   true,
		},
		"Policy retriever error": {
			errPolicy: errors.New("some error"),
			mockRoles: roles,
			wantErr:   "failed to get policy: some error",
		},
		"Query initialisation error": {
			mockPolicy: "",
			mockRoles:  roles,
			wantErr:    "failed to prepare query: 1 error occurred: decisionmaker:0: rego_parse_error: empty module",
		},
		"Undefined query": {
			mockPolicy: "package other\n\nx := 1\n",
			mockRoles:  roles,
			wantErr:    "failed to evaluate query: query result is undefined",
		},
		"Non boolean result": {
			mockPolicy: "package registry\n\nallow := \"yes\"\n",
			mockRoles:  roles,
			wantErr:    "failed to evaluate query: unexpected result yes",
		},
		"Information provider error": {
			mockPolicy: policyretriever.RegistryPolicy,
			errRoles:   errors.New("some error"),
			wantErr:    "failed to get roles: some error",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			policyRetrieverMock := new(MockPolicyRetriever)
			infoProviderMock := new(MockInfoProvider)
			decisionMaker := NewDecisionMaker(policyRetrieverMock, infoProviderMock, policyretriever.RegistryQuery)
			request := &decisionmaker.DecisionRequest{
				Subject:  "root",
				Action:   "delete",
				Resource: "/api/users",
			}

			policyRetrieverMock.On("GetPolicy").Return(tc.mockPolicy, tc.errPolicy)
			infoProviderMock.On("GetRoles", request.Subject).Return(tc.mockRoles, tc.errRoles)

			got, err := decisionMaker.MakeDecision(context.TODO(), request)

			if tc.wantErr != "" {
				assert.EqualError(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestMakeDecision_RegistryPolicy(t *testing.T) {
	decisionMaker := NewDecisionMaker(
		policyretriever.NewStaticPolicyRetriever(policyretriever.RegistryPolicy),
		infoprovider.NewStaticRoleProvider(map[string][]string{"root": {"admin"}}, []string{"user"}),
		policyretriever.RegistryQuery,
	)

	cases := map[string]struct {
		request  *decisionmaker.DecisionRequest
		expected bool
	}{
		"user reads count": {
			request:  &decisionmaker.DecisionRequest{Subject: "testuser", Action: "get", Resource: "/api/users/count"},
			expected: true,
		},
		"user clears registry": {
			request:  &decisionmaker.DecisionRequest{Subject: "testuser", Action: "delete", Resource: "/api/users"},
			expected: false,
		},
		"admin reads count": {
			request:  &decisionmaker.DecisionRequest{Subject: "root", Action: "get", Resource: "/api/users/count"},
			expected: true,
		},
		"admin clears registry": {
			request:  &decisionmaker.DecisionRequest{Subject: "root", Action: "delete", Resource: "/api/users"},
			expected: true,
		},
		"unknown route": {
			request:  &decisionmaker.DecisionRequest{Subject: "root", Action: "get", Resource: "/api/users"},
			expected: false,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := decisionMaker.MakeDecision(context.TODO(), tc.request)

			assert.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}
