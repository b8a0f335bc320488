package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"lifelog/internal/engine"
	"lifelog/internal/llm"
	"lifelog/internal/model"
	"lifelog/internal/store"
)

func testServer(t *testing.T) (*Server, *llm.MockClient) {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("opening memory store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	mock := &llm.MockClient{}
	logger := log.New(io.Discard)
	ctrl := engine.NewController(db, mock, nil, logger)
	return New(db, ctrl, logger, "test"), mock
}

func TestHealth(t *testing.T) {
	srv, _ := testServer(t)

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["status"] != "ok" {
		t.Errorf("status = %v, want ok", resp["status"])
	}
	if resp["db"] != true {
		t.Errorf("db = %v, want true", resp["db"])
	}
}

func TestPostMessageRunsTurn(t *testing.T) {
	srv, mock := testServer(t)
	mock.Queue = []*llm.Response{
		{Content: "log"},
		{Content: `{"sleep":{"duration_hours":7,"quality":"good","bedtime_hour":23,"wake_hour":6}}`},
	}

	body := `{"user_id":"u1","text":"slept 7 hours, 11pm to 6am, felt good"}`
	req := httptest.NewRequest("POST", "/api/messages", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !strings.Contains(resp["response"], "logged") {
		t.Errorf("response = %q, want confirmation", resp["response"])
	}
}

func TestPostMessageValidation(t *testing.T) {
	srv, _ := testServer(t)

	cases := []struct {
		name, body string
	}{
		{"missing user", `{"text":"hello"}`},
		{"missing text", `{"user_id":"u1"}`},
		{"bad json", `{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/messages", strings.NewReader(tc.body))
			w := httptest.NewRecorder()
			srv.ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestGetRecords(t *testing.T) {
	srv, _ := testServer(t)

	recs := []model.Record{
		{"type": model.TypeSleep, "date": "2026-08-30", "duration_hours": 7.5},
		{"type": model.TypeExercise, "date": "2026-08-30", "exercise_type": "run"},
	}
	if err := srv.db.SaveRecords("u1", recs); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/api/records?user_id=u1&type=sleep", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Records []store.StoredRecord `json:"records"`
		Count   int                  `json:"count"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Count != 1 || len(resp.Records) != 1 {
		t.Fatalf("count = %d, records = %d", resp.Count, len(resp.Records))
	}
	if resp.Records[0].Type != model.TypeSleep {
		t.Errorf("type = %q", resp.Records[0].Type)
	}
}

func TestGetRecordsRequiresUser(t *testing.T) {
	srv, _ := testServer(t)

	req := httptest.NewRequest("GET", "/api/records", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
