package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"lifelog/internal/model"
)

// Retry policy for the extraction call. Retries are sequential, never
// concurrent for the same turn.
const (
	extractAttempts     = 3
	extractBaseInterval = 2 * time.Second
	extractMaxInterval  = 10 * time.Second
)

// Extractor turns free text into a structured candidate using the
// underlying Client, retrying transient failures with exponential
// backoff. Exhausting the retry budget is fatal for the turn.
type Extractor struct {
	Client Client

	// BaseInterval overrides the first retry delay when nonzero.
	// Tests use this to avoid real sleeps.
	BaseInterval time.Duration
}

// Extract calls the LLM and parses its JSON object response into a
// Candidate. history is a compact rendering of the recent turns.
func (e *Extractor) Extract(ctx context.Context, text, today, history string) (*model.Candidate, error) {
	prompt := ExtractionPrompt(text, today, history)

	var cand *model.Candidate
	op := func() error {
		resp, err := e.Client.Complete(ctx, prompt)
		if err != nil {
			return fmt.Errorf("llm extraction: %w", err)
		}
		c, err := ParseCandidate(resp.Content)
		if err != nil {
			return fmt.Errorf("parse extraction response: %w", err)
		}
		cand = c
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = extractBaseInterval
	if e.BaseInterval > 0 {
		b.InitialInterval = e.BaseInterval
	}
	b.MaxInterval = extractMaxInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(b, extractAttempts-1), ctx)

	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return cand, nil
}

// ParseCandidate extracts a JSON object from the LLM response. The
// response might contain markdown code fences or other wrapper text.
func ParseCandidate(content string) (*model.Candidate, error) {
	content = strings.TrimSpace(content)

	// Strip markdown code fences if present
	if strings.HasPrefix(content, "```") {
		lines := strings.Split(content, "\n")
		if len(lines) > 2 {
			content = strings.Join(lines[1:len(lines)-1], "\n")
		}
	}
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	var cand model.Candidate
	if err := json.Unmarshal([]byte(content[start:end+1]), &cand); err != nil {
		return nil, fmt.Errorf("unmarshal candidate: %w", err)
	}
	return &cand, nil
}
