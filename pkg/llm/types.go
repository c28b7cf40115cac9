package llm

// Message represents a single message in a chat-like conversation with the LLM.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completion is the result of a generative model call: the answer text plus
// whatever metadata the provider reported (token usage, model name, and a
// "confidence" value when the provider supplies one).
type Completion struct {
	Text     string
	Metadata map[string]any
}

// OpenAIRequest represents a request to OpenAI-compatible chat APIs.
type OpenAIRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	Stream      bool      `json:"stream"`
}

// OpenAIResponse represents the non-streaming response with usage information.
type OpenAIResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// OpenAIEmbeddingRequest represents the request body for OpenAI-compatible
// embeddings APIs.
type OpenAIEmbeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// OpenAIEmbeddingResponse represents the response body from OpenAI-compatible
// embeddings APIs.
type OpenAIEmbeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}
