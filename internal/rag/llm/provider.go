package llm

import "context"

// Provider is a text completion backend. Prompt assembly (context
// snippets, history, truncation) happens upstream; a Provider only turns
// a finished prompt into an answer.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
