package parser

import (
	"encoding/json"
	"strings"
)

// Kind tags a parsed model response.
type Kind int

const (
	// Raw means the response could not be interpreted as structured data; the
	// text is kept as-is rather than discarded.
	Raw Kind = iota
	// Structured means the response parsed as a JSON object or array.
	Structured
)

// Result is the outcome of the single explicit parse step applied to a model
// response. Raw always holds the original text, so a failed parse degrades to
// opaque text instead of losing the answer.
type Result struct {
	Kind   Kind
	Fields map[string]any // set when the response was a JSON object
	Items  []any          // set when the response was a JSON array
	Raw    string
}

// Text returns the response text regardless of how parsing went.
func (r Result) Text() string {
	return r.Raw
}

// Confidence returns the model-reported confidence if the structured response
// carried one in [0, 1], or fallback otherwise.
func (r Result) Confidence(fallback float64) float64 {
	if r.Kind != Structured || r.Fields == nil {
		return fallback
	}
	v, ok := r.Fields["confidence"].(float64)
	if !ok || v < 0 || v > 1 {
		return fallback
	}
	return v
}

// Parse attempts to interpret a model response as JSON, unwrapping a single
// fenced code block first if present. Anything that does not parse comes back
// tagged Raw with the original text intact.
func Parse(response string) Result {
	candidate := stripFence(strings.TrimSpace(response))

	trimmed := strings.TrimSpace(candidate)
	if strings.HasPrefix(trimmed, "{") {
		var fields map[string]any
		if err := json.Unmarshal([]byte(trimmed), &fields); err == nil {
			return Result{Kind: Structured, Fields: fields, Raw: response}
		}
	}
	if strings.HasPrefix(trimmed, "[") {
		var items []any
		if err := json.Unmarshal([]byte(trimmed), &items); err == nil {
			return Result{Kind: Structured, Items: items, Raw: response}
		}
	}

	return Result{Kind: Raw, Raw: response}
}

// stripFence removes a single surrounding markdown code fence, e.g.
// ```json ... ``` as models commonly wrap JSON answers in one.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}
	last := len(lines) - 1
	if strings.TrimSpace(lines[last]) != "```" {
		return s
	}
	return strings.Join(lines[1:last], "\n")
}
