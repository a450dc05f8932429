// Package taskgen calls an OpenRouter-compatible chat-completions endpoint to
// generate short daily task descriptions.
package taskgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1/chat/completions"
	defaultModel   = "google/gemma-3-1b-it:free"

	prompt = `Generate 3 short daily health tasks as a JSON array of strings.
Return only raw JSON. Do not include Markdown formatting or code blocks.`
)

// Client generates task descriptions via a chat-completions API.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// New constructs a client for the default OpenRouter endpoint and model.
func New(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   defaultModel,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Generate requests a fresh list of task descriptions. A non-parseable or
// empty model response fails the whole request; no partial list is returned.
func (c *Client) Generate(ctx context.Context) ([]string, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("taskgen: missing API key")
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.7,
		MaxTokens:   200,
	})
	if err != nil {
		return nil, fmt.Errorf("taskgen: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("taskgen: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("taskgen: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("taskgen: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("taskgen: API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("taskgen: decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("taskgen: no choices returned")
	}

	return parseTasks(parsed.Choices[0].Message.Content)
}

// parseTasks extracts the JSON string array from the model output, tolerating
// a Markdown code fence around it.
func parseTasks(content string) ([]string, error) {
	cleaned := strings.TrimSpace(content)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.ReplaceAll(cleaned, "```json", "")
		cleaned = strings.ReplaceAll(cleaned, "```", "")
		cleaned = strings.TrimSpace(cleaned)
	}

	var tasks []string
	if err := json.Unmarshal([]byte(cleaned), &tasks); err != nil {
		return nil, fmt.Errorf("taskgen: parse tasks: %w", err)
	}
	if len(tasks) == 0 {
		return nil, fmt.Errorf("taskgen: empty task list")
	}
	return tasks, nil
}
