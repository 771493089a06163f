// Package orchestrator defines the contract between the task service and
// the legal agent pipeline, plus a thin LLM-backed client implementing it.
// The pipeline itself is an external collaborator: everything here delegates
// the substantive reasoning to an LLM provider.
package orchestrator

import "context"

// Result status values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result carries the outcome of one collaborator call
type Result struct {
	Status     string `json:"status"` // "success" or "error"
	Output     string `json:"output,omitempty"`
	ClientType string `json:"client_type,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Orchestrator is the collaborator the task executors delegate to.
// Implementations must be safe for concurrent use.
type Orchestrator interface {
	// ProcessQuery answers a legal question for the given client type and
	// jurisdiction.
	ProcessQuery(ctx context.Context, query, clientType, jurisdiction string) (*Result, error)

	// AnalyzeDocument reviews document content with the given analysis focus
	// (general, risk, contract, compliance).
	AnalyzeDocument(ctx context.Context, content, focus, clientType string) (*Result, error)
}
