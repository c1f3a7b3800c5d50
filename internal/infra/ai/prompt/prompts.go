package prompt

import (
	"fmt"
	"strings"
)

// Prompt builders for the four AI operations. Pure string templating: each
// prompt embeds the caller-supplied fields and states the exact JSON value the
// model must emit, with an explicit only-JSON instruction. Caller input is
// cleaned just enough that it cannot break the textual structure.

// Company carries the caller-supplied fields embedded into analyze/compare
// prompts.
type Company struct {
	Name           string
	Description    string
	Website        string
	Industry       string
	Features       []string
	MarketPosition string
}

const onlyJSON = "Respond with that JSON value only: no markdown, no commentary, no code fences."

// Profile asks for a single-company profile object.
func Profile(companyName string) string {
	return fmt.Sprintf(`You are a market research assistant. Research the company %q and describe it as one valid JSON object with exactly these keys: name, description, website, features, market_position.

Schema (example with empty values):
{
  "name": "<string>",
  "description": "<string>",
  "website": "<string>",
  "features": ["<string>"],
  "market_position": "<string>"
}

%s`, clean(companyName), onlyJSON)
}

// Analyze asks for a structured SWOT object about a known competitor.
func Analyze(c Company) string {
	return fmt.Sprintf(`You are a competitive intelligence analyst. Analyze the following competitor:
Name: %s
Description: %s
Website: %s
Features: %s
Market Position: %s

Produce one valid JSON object with exactly these keys: strengths, weaknesses, opportunities, threats, market_share, sentiment_score, summary.

Schema (example with empty values):
{
  "strengths": ["<string>"],
  "weaknesses": ["<string>"],
  "opportunities": ["<string>"],
  "threats": ["<string>"],
  "market_share": 0.0,
  "sentiment_score": 0.0,
  "summary": "<string>"
}

market_share is an estimated percentage; sentiment_score is a float between -1 and 1. %s`,
		clean(c.Name), clean(c.Description), clean(c.Website),
		clean(strings.Join(c.Features, ", ")), clean(c.MarketPosition), onlyJSON)
}

// Search asks for up to five candidate companies matching a free-text query.
func Search(query string) string {
	return fmt.Sprintf(`You are a market research assistant. Find up to 5 real companies matching the query %q and return them as one valid JSON array. Each element must be an object with exactly these keys: name, description, website, industry, features.

Schema (example with empty values):
[
  {
    "name": "<string>",
    "description": "<string>",
    "website": "<string>",
    "industry": "<string>",
    "features": ["<string>"]
  }
]

%s`, clean(query), onlyJSON)
}

// Compare asks for a head-to-head comparison object for two companies.
func Compare(c1, c2 Company) string {
	return fmt.Sprintf(`You are a competitive intelligence analyst. Compare these two companies:

Company 1: %s
Description: %s
Industry: %s
Features: %s

Company 2: %s
Description: %s
Industry: %s
Features: %s

Produce one valid JSON object with exactly these keys: marketShare, revenue, strengths, weaknesses, featureComparison, overallAnalysis.

Schema (example with empty values):
{
  "marketShare": {"company1": 0.0, "company2": 0.0},
  "revenue": {"company1": "<string>", "company2": "<string>"},
  "strengths": {"company1": ["<string>"], "company2": ["<string>"]},
  "weaknesses": {"company1": ["<string>"], "company2": ["<string>"]},
  "featureComparison": [
    {"feature": "<string>", "company1Has": false, "company2Has": false, "notes": "<string>"}
  ],
  "overallAnalysis": "<string>"
}

%s`,
		clean(c1.Name), clean(c1.Description), clean(c1.Industry), clean(strings.Join(c1.Features, ", ")),
		clean(c2.Name), clean(c2.Description), clean(c2.Industry), clean(strings.Join(c2.Features, ", ")),
		onlyJSON)
}

// clean flattens caller input to a single trimmed line so embedded newlines or
// control characters cannot break the instruction layout.
func clean(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			b.WriteRune(' ')
		case r < 32:
			// drop other control characters
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
