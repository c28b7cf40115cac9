package query

import (
	"context"
	"fmt"

	"github.com/codeinsight-dev/codeinsight/pkg/index"
	"github.com/codeinsight-dev/codeinsight/pkg/llm"
	"github.com/codeinsight-dev/codeinsight/pkg/parser"
	"github.com/codeinsight-dev/codeinsight/pkg/prompts"
)

// Request describes one retrieval-augmented query.
type Request struct {
	Text     string
	TopK     int
	Category Category
}

// Engine answers free-text queries against a document index: it embeds the
// query with the same embedder used at indexing time, ranks chunks by cosine
// similarity, and asks the generative model to synthesize an answer from the
// top results.
type Engine struct {
	embedder  llm.Embedder
	completer llm.Completer
}

// NewEngine creates a query engine over the given model collaborators.
func NewEngine(embedder llm.Embedder, completer llm.Completer) *Engine {
	return &Engine{embedder: embedder, completer: completer}
}

// Query runs one retrieval-augmented query against idx. A failed model call
// surfaces as an error rather than a partial answer; the caller decides
// whether to record it as a workflow error.
func (e *Engine) Query(ctx context.Context, idx *index.Index, req Request) (*Answer, error) {
	if idx == nil {
		return nil, fmt.Errorf("query requires a built index")
	}
	if req.TopK < 1 {
		return nil, fmt.Errorf("top_k must be >= 1, got %d", req.TopK)
	}

	queryVec, err := e.embedder.Embed(ctx, req.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	matches := idx.Search(queryVec, req.TopK)

	prompt := prompts.Synthesis(req.Text, matches)
	completion, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize answer: %w", err)
	}

	answer := &Answer{
		Text:       completion.Text,
		Sources:    make([]Source, 0, len(matches)),
		Confidence: confidenceFor(completion, req.Category),
	}
	for _, m := range matches {
		answer.Sources = append(answer.Sources, Source{
			Path:    m.Chunk.Path,
			Score:   m.Score,
			Excerpt: truncateExcerpt(m.Chunk.Text),
		})
	}
	return answer, nil
}

// confidenceFor prefers a model-reported confidence, whether in call metadata
// or in a structured response body, and falls back to the category default.
func confidenceFor(completion *llm.Completion, cat Category) float64 {
	if v, ok := completion.Metadata["confidence"].(float64); ok && v >= 0 && v <= 1 {
		return v
	}
	return parser.Parse(completion.Text).Confidence(DefaultConfidence(cat))
}
