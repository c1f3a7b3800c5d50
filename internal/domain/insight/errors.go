package insight

// ExtractionError means no parseable JSON span was found in the raw model output.
type ExtractionError struct {
	Reason string
}

func (e *ExtractionError) Error() string { return "extract: " + e.Reason }

// SchemaError means the extracted JSON is missing a required field, or a field
// that is present has the wrong JSON type.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string { return "schema: " + e.Reason }
