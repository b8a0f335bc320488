package llm

import (
	"context"
	"strings"
)

// Intent is the three-way routing decision for an incoming message.
type Intent string

const (
	IntentLog   Intent = "log"
	IntentQuery Intent = "query"
	IntentOther Intent = "other"
)

// Classify asks the LLM which intent the message carries. Ambiguous or
// failed classifications fall back to IntentLog: losing a log entry is
// worse than a spurious extraction attempt.
func Classify(ctx context.Context, client Client, text string) Intent {
	resp, err := client.Complete(ctx, ClassifyPrompt(text))
	if err != nil || resp == nil {
		return IntentLog
	}
	switch {
	case containsWord(resp.Content, "query"):
		return IntentQuery
	case containsWord(resp.Content, "other"):
		return IntentOther
	default:
		return IntentLog
	}
}

func containsWord(content, word string) bool {
	return strings.Contains(strings.ToLower(strings.TrimSpace(content)), word)
}
