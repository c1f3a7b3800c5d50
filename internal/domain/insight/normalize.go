package insight

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MaxSearchResults caps how many candidate companies a search returns.
const MaxSearchResults = 5

// NormalizeProfile validates a candidate profile object. `name` is required;
// every other field defaults to its empty value. A present field of the wrong
// JSON type is a SchemaError, not a coercion.
func NormalizeProfile(candidate string) (*Profile, error) {
	var in struct {
		Name           *string   `json:"name"`
		Description    *string   `json:"description"`
		Website        *string   `json:"website"`
		Features       *[]string `json:"features"`
		MarketPosition *string   `json:"market_position"`
	}
	if err := json.Unmarshal([]byte(candidate), &in); err != nil {
		return nil, schemaErr("profile", err)
	}
	if in.Name == nil || *in.Name == "" {
		return nil, &SchemaError{Reason: `profile: missing required field "name"`}
	}

	p := &Profile{Name: *in.Name, Features: []string{}}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Website != nil {
		p.Website = *in.Website
	}
	if in.Features != nil {
		p.Features = *in.Features
	}
	if in.MarketPosition != nil {
		p.MarketPosition = *in.MarketPosition
	}
	return p, nil
}

// NormalizeSWOT validates a candidate analysis object. Nothing is strictly
// required: lists default to empty, the two scores stay nil when absent and
// the summary defaults to "".
func NormalizeSWOT(candidate string) (*SWOT, error) {
	var in struct {
		Strengths      *[]string `json:"strengths"`
		Weaknesses     *[]string `json:"weaknesses"`
		Opportunities  *[]string `json:"opportunities"`
		Threats        *[]string `json:"threats"`
		MarketShare    *float64  `json:"market_share"`
		SentimentScore *float64  `json:"sentiment_score"`
		Summary        *string   `json:"summary"`
	}
	if err := json.Unmarshal([]byte(candidate), &in); err != nil {
		return nil, schemaErr("analysis", err)
	}

	s := &SWOT{
		Strengths:      []string{},
		Weaknesses:     []string{},
		Opportunities:  []string{},
		Threats:        []string{},
		MarketShare:    in.MarketShare,
		SentimentScore: in.SentimentScore,
	}
	if in.Strengths != nil {
		s.Strengths = *in.Strengths
	}
	if in.Weaknesses != nil {
		s.Weaknesses = *in.Weaknesses
	}
	if in.Opportunities != nil {
		s.Opportunities = *in.Opportunities
	}
	if in.Threats != nil {
		s.Threats = *in.Threats
	}
	if in.Summary != nil {
		s.Summary = *in.Summary
	}
	return s, nil
}

// comparisonRequired are the top-level keys a comparison object must carry.
var comparisonRequired = []string{
	"marketShare", "revenue", "strengths", "weaknesses", "featureComparison", "overallAnalysis",
}

// NormalizeComparison validates a candidate comparison object. All six
// top-level keys are required; inside featureComparison each entry requires
// `feature`, the two booleans default to false and `notes` to "".
func NormalizeComparison(candidate string) (*Comparison, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &keys); err != nil {
		return nil, schemaErr("comparison", err)
	}
	for _, k := range comparisonRequired {
		if _, ok := keys[k]; !ok {
			return nil, &SchemaError{Reason: fmt.Sprintf("comparison: missing required field %q", k)}
		}
	}

	var in struct {
		MarketShare ShareSplit `json:"marketShare"`
		Revenue     TextSplit  `json:"revenue"`
		Strengths   ListSplit  `json:"strengths"`
		Weaknesses  ListSplit  `json:"weaknesses"`
		Features    []struct {
			Feature     *string `json:"feature"`
			Company1Has *bool   `json:"company1Has"`
			Company2Has *bool   `json:"company2Has"`
			Notes       *string `json:"notes"`
		} `json:"featureComparison"`
		OverallAnalysis string `json:"overallAnalysis"`
	}
	if err := json.Unmarshal([]byte(candidate), &in); err != nil {
		return nil, schemaErr("comparison", err)
	}

	out := &Comparison{
		MarketShare:       in.MarketShare,
		Revenue:           in.Revenue,
		Strengths:         in.Strengths,
		Weaknesses:        in.Weaknesses,
		FeatureComparison: make([]FeatureComparison, 0, len(in.Features)),
		OverallAnalysis:   in.OverallAnalysis,
	}
	for i, f := range in.Features {
		if f.Feature == nil || *f.Feature == "" {
			return nil, &SchemaError{Reason: fmt.Sprintf("comparison: featureComparison[%d] missing required field \"feature\"", i)}
		}
		row := FeatureComparison{Feature: *f.Feature}
		if f.Company1Has != nil {
			row.Company1Has = *f.Company1Has
		}
		if f.Company2Has != nil {
			row.Company2Has = *f.Company2Has
		}
		if f.Notes != nil {
			row.Notes = *f.Notes
		}
		out.FeatureComparison = append(out.FeatureComparison, row)
	}
	return out, nil
}

// NormalizeSearchResults validates a candidate list of company summaries.
// Each entry requires `name`; other fields default to empty. At most
// MaxSearchResults entries are kept.
func NormalizeSearchResults(candidate string) ([]SearchResult, error) {
	var in []struct {
		Name        *string   `json:"name"`
		Description *string   `json:"description"`
		Website     *string   `json:"website"`
		Industry    *string   `json:"industry"`
		Features    *[]string `json:"features"`
	}
	if err := json.Unmarshal([]byte(candidate), &in); err != nil {
		return nil, schemaErr("searchResults", err)
	}

	out := make([]SearchResult, 0, len(in))
	for i, e := range in {
		if e.Name == nil || *e.Name == "" {
			return nil, &SchemaError{Reason: fmt.Sprintf("searchResults[%d]: missing required field \"name\"", i)}
		}
		r := SearchResult{Name: *e.Name, Features: []string{}}
		if e.Description != nil {
			r.Description = *e.Description
		}
		if e.Website != nil {
			r.Website = *e.Website
		}
		if e.Industry != nil {
			r.Industry = *e.Industry
		}
		if e.Features != nil {
			r.Features = *e.Features
		}
		out = append(out, r)
		if len(out) == MaxSearchResults {
			break
		}
	}
	return out, nil
}

// schemaErr folds a json decoding failure into a SchemaError, keeping the
// offending field name when the decoder reports one.
func schemaErr(shape string, err error) *SchemaError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "(root)"
		}
		return &SchemaError{Reason: fmt.Sprintf("%s: field %q has wrong JSON type (got %s)", shape, field, typeErr.Value)}
	}
	return &SchemaError{Reason: fmt.Sprintf("%s: %v", shape, err)}
}
