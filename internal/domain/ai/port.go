package ai

import "context"

// Client is the single outbound boundary to the generative-AI provider.
// One prompt in, raw text out; the response carries no shape guarantees.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
