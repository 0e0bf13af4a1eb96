package opa

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticPolicyRetriever_GetPolicy(t *testing.T) {
	policy, err := NewStaticPolicyRetriever(RegistryPolicy).GetPolicy()

	assert.NoError(t, err)
	assert.Equal(t, RegistryPolicy, policy)
}

func TestFilePolicyRetriever_GetPolicy(t *testing.T) {
	tempDir := t.TempDir()
	policyPath := filepath.Join(tempDir, "registry.rego")
	require.NoError(t, os.WriteFile(policyPath, []byte(RegistryPolicy), 0o600))

	cases := map[string]struct {
		path           string
		expectedPolicy string
		expectedError  string
	}{
		"should read policy file": {
			path:           policyPath,
			expectedPolicy: RegistryPolicy,
		},
		"should return error when policy does not exist": {
			path:          filepath.Join(tempDir, "missing.rego"),
			expectedError: "policy not found",
		},
		"should return error when policy path is directory": {
			path:          tempDir,
			expectedError: "policy path is a directory, not a file",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			policy, err := NewFilePolicyRetriever(tc.path).GetPolicy()

			if tc.expectedError != "" {
				assert.ErrorContains(t, err, tc.expectedError)
				assert.Empty(t, policy)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tc.expectedPolicy, policy)
		})
	}
}
