package competitors

import "fmt"

// Field length limits, mirrored by the persistence schema.
const (
	MaxNameLen           = 200
	MaxWebsiteLen        = 200
	MaxMarketPositionLen = 100
)

// ValidationError reports a persistence-level constraint violation
// (uniqueness, field length) for otherwise well-formed data.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}
