package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Embedder turns text into a fixed-length vector. The document index and the
// query engine both depend on this interface so tests can substitute a
// deterministic implementation.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Completer produces an answer for a synthesis prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (*Completion, error)
}

// Client dispatches embedding and completion calls to a provider selected by
// the provider:model naming convention ("openai:gpt-4-turbo",
// "ollama:nomic-embed-text", "test:dummy").
type Client struct {
	model          string
	embeddingModel string
	httpClient     *http.Client
}

// NewClient creates a client for the given completion and embedding model names.
func NewClient(model, embeddingModel string) *Client {
	return &Client{
		model:          model,
		embeddingModel: embeddingModel,
		httpClient:     &http.Client{Timeout: 120 * time.Second},
	}
}

// splitModelName splits "provider:model" into its parts. A missing provider
// defaults to openai-compatible.
func splitModelName(name string) (provider, model string) {
	parts := strings.SplitN(name, ":", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return "openai", name
}

// Embed generates an embedding for the given input using the configured
// embedding model. Failures are reported as *ModelCallError.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	provider, model := splitModelName(c.embeddingModel)
	var (
		vec []float64
		err error
	)
	switch provider {
	case "test":
		vec = testEmbedding(text)
	case "ollama":
		vec, err = c.ollamaEmbedding(ctx, model, text)
	case "openai":
		vec, err = c.openAIEmbedding(ctx, model, text)
	default:
		err = fmt.Errorf("unsupported embedding provider: %s", provider)
	}
	if err != nil {
		return nil, &ModelCallError{Op: "embed", Model: c.embeddingModel, Err: err}
	}
	return vec, nil
}

// Complete sends the prompt to the configured generative model and returns the
// answer text with provider metadata. Failures are reported as *ModelCallError.
func (c *Client) Complete(ctx context.Context, prompt string) (*Completion, error) {
	provider, model := splitModelName(c.model)
	var (
		completion *Completion
		err        error
	)
	switch provider {
	case "test":
		completion = testCompletion(prompt)
	case "ollama":
		completion, err = c.ollamaCompletion(ctx, model, prompt)
	case "openai":
		completion, err = c.openAICompletion(ctx, model, prompt)
	default:
		err = fmt.Errorf("unsupported completion provider: %s", provider)
	}
	if err != nil {
		return nil, &ModelCallError{Op: "complete", Model: c.model, Err: err}
	}
	return completion, nil
}

// testEmbedding is a deterministic, offline embedding: 16-dim bag-of-chars.
func testEmbedding(input string) []float64 {
	vec := make([]float64, 16)
	for i := 0; i < len(input); i++ {
		idx := int(input[i]) % 16
		vec[idx] += 1.0
	}
	return vec
}

// testCompletion is a deterministic, offline completion for tests.
func testCompletion(prompt string) *Completion {
	return &Completion{
		Text:     fmt.Sprintf("test completion for prompt of %d chars", len(prompt)),
		Metadata: map[string]any{},
	}
}
