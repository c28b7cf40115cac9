package llm

import (
	"context"
	"fmt"
	"strings"

	ollama "github.com/ollama/ollama/api"
)

// ollamaCompletion runs the prompt against a local ollama server. The server
// address comes from OLLAMA_HOST via the client library.
func (c *Client) ollamaCompletion(ctx context.Context, model, prompt string) (*Completion, error) {
	client, err := ollama.ClientFromEnvironment()
	if err != nil {
		return nil, fmt.Errorf("could not create ollama client: %w", err)
	}

	stream := false
	req := &ollama.ChatRequest{
		Model: model,
		Messages: []ollama.Message{
			{Role: "user", Content: prompt},
		},
		Stream: &stream,
		Options: map[string]interface{}{
			"temperature": 0.2,
		},
	}

	var sb strings.Builder
	var meta map[string]any
	err = client.Chat(ctx, req, func(resp ollama.ChatResponse) error {
		sb.WriteString(resp.Message.Content)
		if resp.Done {
			meta = map[string]any{
				"model":        resp.Model,
				"total_tokens": resp.PromptEvalCount + resp.EvalCount,
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama chat request failed: %w", err)
	}
	if meta == nil {
		meta = map[string]any{"model": model}
	}

	return &Completion{Text: sb.String(), Metadata: meta}, nil
}

// ollamaEmbedding generates an embedding via a local ollama server.
func (c *Client) ollamaEmbedding(ctx context.Context, model, input string) ([]float64, error) {
	client, err := ollama.ClientFromEnvironment()
	if err != nil {
		return nil, fmt.Errorf("could not create ollama client: %w", err)
	}

	resp, err := client.Embeddings(ctx, &ollama.EmbeddingRequest{
		Model:  model,
		Prompt: input,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama embedding request failed: %w", err)
	}
	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("ollama embedding response was empty")
	}

	return resp.Embedding, nil
}
