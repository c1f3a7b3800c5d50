package ai

import "fmt"

// Kind classifies an upstream failure.
type Kind string

const (
	// KindTimeout is the adapter-imposed deadline expiring.
	KindTimeout Kind = "timeout"
	// KindQuota is a provider quota/limit error (HTTP 429 or similar).
	KindQuota Kind = "quota"
	// KindBlocked is the provider refusing to complete (content filter).
	KindBlocked Kind = "blocked"
	// KindUpstream is any other transport or API failure.
	KindUpstream Kind = "upstream"
)

// UpstreamError wraps any failure of the provider call: network errors,
// non-2xx responses, content blocking and timeouts.
type UpstreamError struct {
	Kind Kind
	Err  error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("ai upstream (%s): %v", e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
