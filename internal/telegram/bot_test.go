package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"lifelog/internal/config"
	"lifelog/internal/engine"
	"lifelog/internal/llm"
	"lifelog/internal/store"
)

const authorizedChat int64 = 4242

// sentMessage captures one sendMessage call seen by the fake API.
type sentMessage struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

func fakeAPI(t *testing.T, sent *[]sentMessage) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		switch {
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var m sentMessage
			if err := json.Unmarshal(body, &m); err != nil {
				t.Errorf("bad sendMessage body: %v", err)
			}
			*sent = append(*sent, m)
			io.WriteString(w, `{"ok":true,"result":{}}`)
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			io.WriteString(w, `{"ok":true,"result":[]}`)
		default:
			t.Errorf("unexpected call: %s", r.URL.Path)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testBot(t *testing.T, mock *llm.MockClient, sent *[]sentMessage) *Bot {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("opening memory store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := log.New(io.Discard)
	ctrl := engine.NewController(db, mock, nil, logger)

	cfg := config.TelegramConfig{BotToken: "test-token", ChatID: authorizedChat}
	b := NewBot(cfg, ctrl, logger)
	b.client.base = fakeAPI(t, sent).URL
	return b
}

func update(chatID int64, text string) Update {
	return Update{
		UpdateID: 1,
		Message:  &Message{MessageID: 1, Text: text, Chat: Chat{ID: chatID}},
	}
}

func TestHandleUpdateUnauthorizedChat(t *testing.T) {
	var sent []sentMessage
	mock := &llm.MockClient{}
	b := testBot(t, mock, &sent)

	b.handleUpdate(context.Background(), update(999, "log my sleep"))

	if len(sent) != 1 || sent[0].Text != unauthorizedReply {
		t.Fatalf("sent = %+v, want unauthorized reply", sent)
	}
	if sent[0].ChatID != 999 {
		t.Errorf("reply went to chat %d", sent[0].ChatID)
	}
	if len(mock.Calls) != 0 {
		t.Errorf("unauthorized message must not reach the pipeline, got %d calls", len(mock.Calls))
	}
}

func TestHandleUpdateStartCommand(t *testing.T) {
	var sent []sentMessage
	b := testBot(t, &llm.MockClient{}, &sent)

	b.handleUpdate(context.Background(), update(authorizedChat, "/start"))

	if len(sent) != 1 || sent[0].Text != greeting {
		t.Fatalf("sent = %+v, want greeting", sent)
	}
}

func TestHandleUpdateRunsTurn(t *testing.T) {
	var sent []sentMessage
	mock := &llm.MockClient{Queue: []*llm.Response{
		{Content: "log"},
		{Content: `{"sleep":{"duration_hours":7,"quality":"good","bedtime_hour":23,"wake_hour":6}}`},
	}}
	b := testBot(t, mock, &sent)

	b.handleUpdate(context.Background(), update(authorizedChat, "slept 7 hours, 11pm to 6am, quality good"))

	if len(sent) != 1 {
		t.Fatalf("expected one reply, got %+v", sent)
	}
	if !strings.Contains(sent[0].Text, "logged") {
		t.Errorf("reply = %q, want save confirmation", sent[0].Text)
	}
	if sent[0].ChatID != authorizedChat {
		t.Errorf("reply chat = %d", sent[0].ChatID)
	}
}

func TestHandleUpdateIgnoresEmpty(t *testing.T) {
	var sent []sentMessage
	b := testBot(t, &llm.MockClient{}, &sent)

	b.handleUpdate(context.Background(), Update{UpdateID: 1})
	b.handleUpdate(context.Background(), update(authorizedChat, ""))

	if len(sent) != 0 {
		t.Errorf("empty updates should be dropped, sent %+v", sent)
	}
}

func TestClientAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":false,"description":"Unauthorized"}`)
	}))
	defer srv.Close()

	c := NewClient("bad-token")
	c.base = srv.URL
	err := c.SendMessage(context.Background(), 1, "hi")
	if err == nil || !strings.Contains(err.Error(), "Unauthorized") {
		t.Errorf("err = %v, want API description surfaced", err)
	}
}

func TestClientGetUpdates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var params map[string]any
		json.NewDecoder(r.Body).Decode(&params)
		if params["offset"].(float64) != 7 {
			t.Errorf("offset = %v", params["offset"])
		}
		io.WriteString(w, `{"ok":true,"result":[{"update_id":8,"message":{"message_id":1,"text":"hi","chat":{"id":42}}}]}`)
	}))
	defer srv.Close()

	c := NewClient("tok")
	c.base = srv.URL
	updates, err := c.GetUpdates(context.Background(), 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(updates) != 1 || updates[0].Message.Text != "hi" || updates[0].Message.Chat.ID != 42 {
		t.Errorf("updates = %+v", updates)
	}
}
