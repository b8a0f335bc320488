package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestParseCandidatePlain(t *testing.T) {
	c, err := ParseCandidate(`{"sleep":{"bedtime_hour":23,"quality":"good"},"journal_note":"calm day"}`)
	if err != nil {
		t.Fatalf("ParseCandidate: %v", err)
	}
	if c.Sleep == nil || c.Sleep.BedtimeHour == nil || *c.Sleep.BedtimeHour != 23 {
		t.Errorf("sleep = %+v", c.Sleep)
	}
	if c.JournalNote != "calm day" {
		t.Errorf("journal = %q", c.JournalNote)
	}
}

func TestParseCandidateFenced(t *testing.T) {
	c, err := ParseCandidate("```json\n{\"tasks\":[{\"task\":\"buy milk\",\"priority\":2}]}\n```")
	if err != nil {
		t.Fatalf("ParseCandidate: %v", err)
	}
	if len(c.Tasks) != 1 || c.Tasks[0].Task != "buy milk" {
		t.Errorf("tasks = %+v", c.Tasks)
	}
}

func TestParseCandidateEmptyObject(t *testing.T) {
	c, err := ParseCandidate("Nothing to extract here: {}")
	if err != nil {
		t.Fatalf("ParseCandidate: %v", err)
	}
	if !c.Empty() {
		t.Errorf("candidate = %+v, want empty", c)
	}
}

func TestParseCandidateGarbage(t *testing.T) {
	if _, err := ParseCandidate("sorry, I can't do that"); err == nil {
		t.Fatal("expected error for non-JSON response")
	}
}

func TestExtractorRetriesThenFails(t *testing.T) {
	mock := &MockClient{Err: errors.New("api down")}
	e := &Extractor{Client: mock, BaseInterval: time.Millisecond}

	_, err := e.Extract(context.Background(), "ran 5k", "2026-02-10", "")
	if err == nil {
		t.Fatal("expected error after retries exhausted")
	}
	if len(mock.Calls) != extractAttempts {
		t.Errorf("attempts = %d, want %d", len(mock.Calls), extractAttempts)
	}
}

func TestClassifyBiasesTowardLog(t *testing.T) {
	mock := &MockClient{Err: errors.New("api down")}
	if got := Classify(context.Background(), mock, "hello"); got != IntentLog {
		t.Errorf("intent on failure = %q, want log", got)
	}

	mock = &MockClient{Response: &Response{Content: "query"}}
	if got := Classify(context.Background(), mock, "how did I sleep?"); got != IntentQuery {
		t.Errorf("intent = %q, want query", got)
	}

	mock = &MockClient{Response: &Response{Content: "  OTHER  "}}
	if got := Classify(context.Background(), mock, "what is 2+2"); got != IntentOther {
		t.Errorf("intent = %q, want other", got)
	}
}
