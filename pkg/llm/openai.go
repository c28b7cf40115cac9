package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

func openAIBaseURL() string {
	if base := os.Getenv("OPENAI_BASE_URL"); base != "" {
		return strings.TrimRight(base, "/")
	}
	return defaultOpenAIBaseURL
}

func openAIAPIKey() (string, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return "", fmt.Errorf("OpenAI API key not found. Please set the OPENAI_API_KEY environment variable")
	}
	return key, nil
}

// retryWithBackoff executes an HTTP request with exponential backoff retry
// logic. Handles 5xx errors, network errors, and transient 4xx errors.
func retryWithBackoff(req *http.Request, client *http.Client, body []byte) (*http.Response, error) {
	const maxRetries = 3
	const baseDelay = 100 * time.Millisecond

	var lastResp *http.Response
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		// Reset request body for retry
		if body != nil {
			req.Body = io.NopCloser(bytes.NewReader(body))
		}

		resp, err := client.Do(req)
		lastResp = resp
		lastErr = err

		if err != nil {
			if attempt < maxRetries {
				delay := baseDelay * time.Duration(1<<attempt) // 100ms, 200ms, 400ms
				time.Sleep(delay)
				continue
			}
			return resp, err
		}

		shouldRetry := false
		switch resp.StatusCode {
		case 408: // Request Timeout
			shouldRetry = true
		case 429: // Too Many Requests
			shouldRetry = true
		case 500, 502, 503, 504: // Server errors
			shouldRetry = true
		}

		if shouldRetry && attempt < maxRetries {
			resp.Body.Close()
			delay := baseDelay * time.Duration(1<<attempt)
			time.Sleep(delay)
			continue
		}

		return resp, err
	}

	return lastResp, lastErr
}

func (c *Client) postJSON(ctx context.Context, url string, payload any) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	apiKey, err := openAIAPIKey()
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := retryWithBackoff(req, c.httpClient, jsonData)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned non-200 status: %s, body: %s", resp.Status, string(bodyBytes))
	}

	return bodyBytes, nil
}

func (c *Client) openAIEmbedding(ctx context.Context, model, input string) ([]float64, error) {
	reqData := OpenAIEmbeddingRequest{
		Model: model,
		Input: []string{input},
	}

	bodyBytes, err := c.postJSON(ctx, openAIBaseURL()+"/embeddings", reqData)
	if err != nil {
		return nil, err
	}

	var embResp OpenAIEmbeddingResponse
	if err := json.Unmarshal(bodyBytes, &embResp); err != nil {
		return nil, fmt.Errorf("failed to decode embedding response: %w, raw body: %s", err, string(bodyBytes))
	}

	if len(embResp.Data) == 0 || len(embResp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("embedding response did not contain expected embedding data, raw body: %s", string(bodyBytes))
	}

	return embResp.Data[0].Embedding, nil
}

func (c *Client) openAICompletion(ctx context.Context, model, prompt string) (*Completion, error) {
	reqData := OpenAIRequest{
		Model: model,
		Messages: []Message{
			{Role: "user", Content: prompt},
		},
		Temperature: 0.2,
		Stream:      false,
	}

	bodyBytes, err := c.postJSON(ctx, openAIBaseURL()+"/chat/completions", reqData)
	if err != nil {
		return nil, err
	}

	var chatResp OpenAIResponse
	if err := json.Unmarshal(bodyBytes, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode chat response: %w, raw body: %s", err, string(bodyBytes))
	}

	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("chat response did not contain any choices, raw body: %s", string(bodyBytes))
	}

	return &Completion{
		Text: chatResp.Choices[0].Message.Content,
		Metadata: map[string]any{
			"model":         model,
			"total_tokens":  chatResp.Usage.TotalTokens,
			"finish_reason": chatResp.Choices[0].FinishReason,
		},
	}, nil
}
