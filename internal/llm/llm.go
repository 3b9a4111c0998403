// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm abstracts single-turn language-model completion. Each
// backend (Groq, Gemini) implements the Completer interface per the
// Strategy pattern; no conversation state is held anywhere in the
// pipeline.
package llm

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Completer issues one single-turn completion for a prompt.
type Completer interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// CompleteWithRetry calls the backend with exponential backoff between
// attempts. maxRetries counts retries after the first attempt; values
// below 1 mean a single attempt with no retry.
func CompleteWithRetry(ctx context.Context, c Completer, prompt string, maxRetries int) (string, error) {
	if maxRetries < 0 {
		maxRetries = 0
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		text, err := c.Complete(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}
