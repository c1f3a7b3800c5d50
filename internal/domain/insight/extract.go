package insight

import (
	"encoding/json"
	"strings"
)

// Delimiter selects the expected top-level JSON kind of a model response.
type Delimiter int

const (
	Object Delimiter = iota
	Array
)

func (d Delimiter) pair() (byte, byte) {
	if d == Array {
		return '[', ']'
	}
	return '{', '}'
}

// Extract locates the JSON payload inside raw model output.
//
// Fast path: if the whole text already parses and its top-level kind matches,
// it is returned untouched. Otherwise the substring from the first opening
// delimiter to the last closing delimiter is tried. This does not balance
// nested delimiters; stray brackets in surrounding prose can defeat it
// (see the package tests). Pure and idempotent.
func Extract(raw string, d Delimiter) (string, error) {
	opening, closing := d.pair()

	if trimmed := strings.TrimSpace(raw); trimmed != "" && trimmed[0] == opening && json.Valid([]byte(raw)) {
		return raw, nil
	}

	start := strings.IndexByte(raw, opening)
	end := strings.LastIndexByte(raw, closing)
	if start < 0 || end <= start {
		return "", &ExtractionError{Reason: "no JSON delimiters in model output"}
	}
	candidate := raw[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return "", &ExtractionError{Reason: "delimited span is not valid JSON"}
	}
	return candidate, nil
}
