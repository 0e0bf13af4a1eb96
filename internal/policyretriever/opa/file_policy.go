package opa

import (
	"errors"
	"fmt"
	"os"

	"github.com/CameronXie/credential-registry/internal/policyretriever"
)

type filePolicyRetriever struct {
	path string
}

// GetPolicy reads the Rego policy from disk on each call.
func (p *filePolicyRetriever) GetPolicy() (string, error) {
	fileInfo, err := os.Stat(p.path)
	if err != nil {
		return "", fmt.Errorf("policy not found: %w", err)
	}

	if fileInfo.IsDir() {
		return "", errors.New("policy path is a directory, not a file")
	}

	content, err := os.ReadFile(p.path)
	if err != nil {
		return "", fmt.Errorf("failed to read policy: %w", err)
	}

	return string(content), nil
}

// NewFilePolicyRetriever creates a PolicyRetriever backed by a Rego file.
func NewFilePolicyRetriever(path string) policyretriever.PolicyRetriever {
	return &filePolicyRetriever{path: path}
}
