package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"lifelog/internal/model"
)

// Exchange is one user/assistant round-trip, kept for extraction
// context.
type Exchange struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// State is the per-thread conversation state checkpointed between
// turns. It serializes to plain JSON so the store never depends on
// engine types. MissingFields holds the fields asked about in the
// previous turn; the completeness check uses it to avoid asking twice.
type State struct {
	Entities           *model.Candidate `json:"entities,omitempty"`
	MissingFields      []string         `json:"missing_fields,omitempty"`
	ClarificationCount int              `json:"clarification_count"`
	LastResponse       string           `json:"last_response,omitempty"`
	History            []Exchange       `json:"history,omitempty"`
}

// DecodeState restores a checkpointed state. A nil or empty blob is a
// fresh conversation, not an error.
func DecodeState(blob []byte) (*State, error) {
	if len(blob) == 0 {
		return &State{}, nil
	}
	var s State
	if err := json.Unmarshal(blob, &s); err != nil {
		return nil, fmt.Errorf("decoding conversation state: %w", err)
	}
	return &s, nil
}

// Encode serializes the state for checkpointing.
func (s *State) Encode() ([]byte, error) {
	blob, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding conversation state: %w", err)
	}
	return blob, nil
}

// Remember appends an exchange, keeping at most limit entries.
func (s *State) Remember(user, assistant string, limit int) {
	s.History = append(s.History, Exchange{User: user, Assistant: assistant})
	if limit > 0 && len(s.History) > limit {
		s.History = s.History[len(s.History)-limit:]
	}
}

// RecentHistory renders the kept exchanges as a compact transcript for
// the extraction prompt.
func (s *State) RecentHistory() string {
	if len(s.History) == 0 {
		return ""
	}
	var b strings.Builder
	for _, e := range s.History {
		fmt.Fprintf(&b, "User: %s\nAssistant: %s\n", e.User, e.Assistant)
	}
	return strings.TrimRight(b.String(), "\n")
}
