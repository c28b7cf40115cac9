package query

import "unicode/utf8"

// Category classifies a query for confidence defaulting: code-quality and
// refactoring queries are inherently less certain, so their fallback
// confidence is lower.
type Category string

const (
	CategoryGeneral     Category = "general"
	CategoryCodeQuality Category = "code_quality"
	CategoryRefactoring Category = "refactoring"
)

// Confidence defaults used when the underlying model does not report one.
const (
	defaultConfidence      = 0.8
	lowCertaintyConfidence = 0.7
	maxExcerptLength       = 200
)

// DefaultConfidence returns the fallback confidence for a category.
func DefaultConfidence(cat Category) float64 {
	switch cat {
	case CategoryCodeQuality, CategoryRefactoring:
		return lowCertaintyConfidence
	default:
		return defaultConfidence
	}
}

// Source is the provenance of one retrieved chunk carried into an answer.
// Field names are a stable contract for downstream formatters.
type Source struct {
	Path    string  `json:"file_path"`
	Score   float64 `json:"score"`
	Excerpt string  `json:"excerpt"`
}

// Answer is the result of one retrieval-augmented query: the synthesized text,
// provenance ordered by descending similarity, and a confidence in [0, 1].
type Answer struct {
	Text       string   `json:"text"`
	Sources    []Source `json:"sources"`
	Confidence float64  `json:"confidence"`
}

// Suggestion is one refactoring recommendation.
type Suggestion struct {
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Confidence  float64  `json:"confidence"`
	Sources     []Source `json:"sources"`
}

// truncateExcerpt shortens text to the excerpt limit, marking the cut with an
// ellipsis. The cut backs up to a rune boundary so the excerpt stays valid
// UTF-8.
func truncateExcerpt(text string) string {
	if len(text) <= maxExcerptLength {
		return text
	}
	cut := maxExcerptLength
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
