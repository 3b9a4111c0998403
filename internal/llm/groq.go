// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/report-engine/internal/httputil"
)

// groqAPIBase is the Groq chat-completions endpoint (OpenAI-compatible).
// Package-level var for test substitution.
var groqAPIBase = "https://api.groq.com/openai/v1/chat/completions"

// GroqBackend calls the Groq API for single-turn completions.
type GroqBackend struct {
	APIKey string
	Model  string
	Client *http.Client
}

// Name returns the backend identifier.
func (b *GroqBackend) Name() string { return "groq" }

// groqRequest is the request body for the chat-completions API.
type groqRequest struct {
	Model    string        `json:"model"`
	Messages []groqMessage `json:"messages"`
}

// groqMessage is a single message in the chat-completions request.
type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// groqResponse is the response body from the chat-completions API.
type groqResponse struct {
	Choices []groqChoice `json:"choices"`
}

// groqChoice is one completion candidate in the response.
type groqChoice struct {
	Message groqMessage `json:"message"`
}

// Complete sends the prompt as a single user message and returns the
// first choice's content.
func (b *GroqBackend) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := groqRequest{
		Model: b.Model,
		Messages: []groqMessage{
			{Role: "user", Content: prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, groqAPIBase, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.APIKey)

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return "", fmt.Errorf("calling Groq API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Groq API returned %d: %s", resp.StatusCode, string(body))
	}

	var gResp groqResponse
	if err := json.NewDecoder(resp.Body).Decode(&gResp); err != nil {
		return "", fmt.Errorf("decoding Groq response: %w", err)
	}

	if len(gResp.Choices) == 0 {
		return "", fmt.Errorf("Groq API returned no choices")
	}
	return gResp.Choices[0].Message.Content, nil
}
