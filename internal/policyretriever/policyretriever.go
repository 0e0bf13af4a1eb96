package policyretriever

// PolicyRetriever loads the policy source evaluated by a decision maker.
type PolicyRetriever interface {
	GetPolicy() (string, error)
}
