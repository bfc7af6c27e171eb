package ports

import "context"

// OraclePrompt is the two-part prompt sent to the decision oracle.
type OraclePrompt struct {
	System string
	User   string
}

// DecisionOracle is the external decision service for the AI side. Its
// output is free-form text with no contract on latency, determinism or
// well-formedness; nothing it returns may touch persisted state without
// passing through the normalizer or the merge guard. Callers impose
// their own timeout via ctx.
type DecisionOracle interface {
	Propose(ctx context.Context, prompt OraclePrompt) (string, error)
}
