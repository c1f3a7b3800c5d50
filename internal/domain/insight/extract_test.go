package insight

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractObjectFastPath(t *testing.T) {
	raw := "  {\"name\": \"Acme\"}  "

	got, err := Extract(raw, Object)
	require.NoError(t, err)
	// already-valid JSON comes back untouched, surrounding whitespace included
	assert.Equal(t, raw, got)
}

func TestExtractObjectFromProse(t *testing.T) {
	raw := "Here is the result:\n{\"name\": \"Acme\", \"features\": [\"a\", \"b\"]}\nThanks!"

	got, err := Extract(raw, Object)
	require.NoError(t, err)
	assert.Equal(t, `{"name": "Acme", "features": ["a", "b"]}`, got)
}

func TestExtractObjectFromCodeFence(t *testing.T) {
	raw := "```json\n{\"name\": \"Acme\"}\n```"

	got, err := Extract(raw, Object)
	require.NoError(t, err)
	assert.Equal(t, `{"name": "Acme"}`, got)
}

func TestExtractArrayFromProse(t *testing.T) {
	raw := "Found these companies:\n[{\"name\": \"Acme\"}]\nLet me know if you need more."

	got, err := Extract(raw, Array)
	require.NoError(t, err)
	assert.Equal(t, `[{"name": "Acme"}]`, got)
}

func TestExtractNoDelimiters(t *testing.T) {
	_, err := Extract("I could not find any structured data.", Object)

	var exErr *ExtractionError
	require.True(t, errors.As(err, &exErr))
	assert.Contains(t, exErr.Error(), "no JSON delimiters")
}

func TestExtractStrayDelimiterDefeatsSlice(t *testing.T) {
	// a stray closing brace in trailing prose widens the slice past the real
	// payload; the heuristic does not balance delimiters, so this fails
	raw := "{\"name\": \"Acme\"} and that covers the set }"

	_, err := Extract(raw, Object)

	var exErr *ExtractionError
	require.True(t, errors.As(err, &exErr))
}

func TestExtractWrongKind(t *testing.T) {
	// caller expects an array but the payload is an object
	_, err := Extract("{\"name\": \"Acme\"}", Array)

	var exErr *ExtractionError
	require.True(t, errors.As(err, &exErr))
}

func TestExtractIdempotent(t *testing.T) {
	raw := "Sure!\n{\"name\": \"Acme\"}\nDone."

	first, err := Extract(raw, Object)
	require.NoError(t, err)
	second, err := Extract(first, Object)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
