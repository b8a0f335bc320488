package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"lifelog/internal/guard"
	"lifelog/internal/llm"
	"lifelog/internal/model"
	"lifelog/internal/store"
)

// DocSync is the document-sync collaborator. Append pushes the
// candidate's categories best-effort and returns the names of the
// categories that failed; a partial failure never aborts the turn.
type DocSync interface {
	Append(ctx context.Context, c *model.Candidate) []string
}

// apologyMessage is the generic failure reply when extraction retries
// are exhausted. The turn ends cleanly; nothing is persisted.
const apologyMessage = "Sorry, I couldn't process that right now. Please try again in a moment."

// chitchatFallback is the static reply when the small-talk completion
// itself fails.
const chitchatFallback = "Got it! Anything you'd like me to log?"

// queryWindowDays bounds how far back query answering looks.
const queryWindowDays = 7

// Controller runs one conversational turn end to end: safety screen,
// intent routing, extraction and merge, completeness check, then
// either a clarification reprompt or persistence with a confirmation.
// Each thread's turns run sequentially; distinct threads run
// concurrently against their own isolated state rows.
type Controller struct {
	Store     *store.DB
	Client    llm.Client
	Extractor *llm.Extractor
	Sync      DocSync // nil disables document sync
	Log       *log.Logger

	MaxClarificationTurns int
	HistoryTurns          int

	// Now is replaceable in tests.
	Now func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewController wires a controller with sane defaults.
func NewController(db *store.DB, client llm.Client, docSync DocSync, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		Store:                 db,
		Client:                client,
		Extractor:             &llm.Extractor{Client: client},
		Sync:                  docSync,
		Log:                   logger,
		MaxClarificationTurns: 3,
		HistoryTurns:          5,
		Now:                   time.Now,
		locks:                 make(map[string]*sync.Mutex),
	}
}

// threadLock returns the per-thread mutex, creating it on first use.
func (c *Controller) threadLock(threadID string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[threadID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[threadID] = l
	}
	return l
}

// HandleTurn processes one user message for the given thread and
// returns the reply text. The thread id doubles as the user id for
// record ownership. Only persistence and state-checkpoint failures
// surface as errors; extraction failures resolve to an apology reply.
func (c *Controller) HandleTurn(ctx context.Context, threadID, text string) (string, error) {
	l := c.threadLock(threadID)
	l.Lock()
	defer l.Unlock()

	blob, err := c.Store.LoadState(threadID)
	if err != nil {
		return "", fmt.Errorf("loading state for thread %s: %w", threadID, err)
	}
	st, err := DecodeState(blob)
	if err != nil {
		c.Log.Warn("discarding corrupt conversation state", "thread", threadID, "err", err)
		st = &State{}
	}

	cleaned, crisis, err := guard.Screen(text)
	if err != nil {
		c.Log.Warn("input rejected", "thread", threadID, "stage", "safety", "err", err)
		return c.abortTurn(threadID, st, guard.RefusalMessage)
	}
	if crisis {
		c.Log.Info("crisis language flagged", "thread", threadID)
		return c.abortTurn(threadID, st, guard.CrisisMessage)
	}

	switch llm.Classify(ctx, c.Client, cleaned) {
	case llm.IntentQuery:
		reply := c.answerQuery(ctx, threadID, cleaned)
		return c.finishTurn(threadID, st, cleaned, reply)
	case llm.IntentOther:
		reply := c.chitchat(ctx, cleaned)
		return c.finishTurn(threadID, st, cleaned, reply)
	}

	return c.handleLog(ctx, threadID, st, cleaned)
}

// handleLog runs the extract, merge, completeness and persist stages
// for a log-intent message.
func (c *Controller) handleLog(ctx context.Context, threadID string, st *State, text string) (string, error) {
	today := c.Now().Format("2006-01-02")

	cand, err := c.Extractor.Extract(ctx, text, today, st.RecentHistory())
	if err != nil {
		c.Log.Error("extraction failed", "thread", threadID, "stage", "extract", "err", err)
		return c.finishTurn(threadID, st, text, apologyMessage)
	}
	for _, issue := range cand.Validate() {
		c.Log.Warn("dropped candidate field", "thread", threadID, "issue", issue)
	}

	// A fresh topic starts clean: stale entities from a finished or
	// unrelated conversation must not bleed into this one. Prior
	// entities merge in only while a clarification is outstanding.
	var merged *model.Candidate
	if len(st.MissingFields) > 0 {
		merged = Merge(st.Entities, cand)
	} else {
		merged = Merge(nil, cand)
	}
	st.ClarificationCount++

	missing, prompt := CheckMissing(merged, st.MissingFields)
	if len(missing) > 0 && st.ClarificationCount < c.MaxClarificationTurns {
		st.Entities = merged
		st.MissingFields = missing
		return c.finishTurn(threadID, st, text, prompt)
	}

	return c.persist(ctx, threadID, st, text, merged, today)
}

// persist saves the merged entities, syncs them best-effort, and
// resets the conversation state. Local save failure is the turn's
// terminal error; sync failure only colors the confirmation.
func (c *Controller) persist(ctx context.Context, threadID string, st *State, text string, merged *model.Candidate, today string) (string, error) {
	if merged.Empty() {
		// Nothing structured came out of the message. Keep it as a
		// journal note instead of silently discarding it.
		merged = &model.Candidate{JournalNote: text}
	}

	records := merged.Records(today)
	if err := c.Store.SaveRecords(threadID, records); err != nil {
		return "", fmt.Errorf("saving records for thread %s: %w", threadID, err)
	}

	var failed []string
	synced := false
	if c.Sync != nil {
		failed = c.Sync.Append(ctx, merged)
		synced = true
		if len(failed) > 0 {
			c.Log.Warn("document sync partially failed", "thread", threadID, "categories", strings.Join(failed, ","))
		}
	}

	reply := ComposeSummary(merged, synced, failed)

	// Mandatory reset so the next unrelated message starts empty.
	st.Entities = nil
	st.MissingFields = nil
	st.ClarificationCount = 0

	return c.finishTurn(threadID, st, text, reply)
}

// finishTurn records the exchange, checkpoints the state, and returns
// the reply.
func (c *Controller) finishTurn(threadID string, st *State, userText, reply string) (string, error) {
	st.Remember(userText, reply, c.HistoryTurns)
	return c.checkpoint(threadID, st, reply)
}

// abortTurn checkpoints without recording the exchange. Text rejected
// by the screen must leave no trace in the history, or it would
// resurface in every later prompt.
func (c *Controller) abortTurn(threadID string, st *State, reply string) (string, error) {
	return c.checkpoint(threadID, st, reply)
}

func (c *Controller) checkpoint(threadID string, st *State, reply string) (string, error) {
	st.LastResponse = reply
	blob, err := st.Encode()
	if err != nil {
		return "", err
	}
	if err := c.Store.SaveState(threadID, blob); err != nil {
		return "", fmt.Errorf("checkpointing thread %s: %w", threadID, err)
	}
	return reply, nil
}

// answerQuery answers a question about recent records by handing the
// question plus a compact record context to the completion client.
func (c *Controller) answerQuery(ctx context.Context, threadID, question string) string {
	since := c.Now().AddDate(0, 0, -queryWindowDays).Format("2006-01-02")
	recs, err := c.Store.RecordsSince(threadID, since)
	if err != nil {
		c.Log.Error("query lookup failed", "thread", threadID, "stage", "query", "err", err)
		return apologyMessage
	}
	if len(recs) == 0 {
		return "I don't have any records from the last week yet."
	}
	var b strings.Builder
	for _, r := range recs {
		fmt.Fprintf(&b, "%s %s: %s\n", r.Date, r.Type, flattenRecord(r.Data))
	}
	resp, err := c.Client.Complete(ctx, llm.QueryPrompt(question, b.String()))
	if err != nil {
		c.Log.Error("query completion failed", "thread", threadID, "stage", "query", "err", err)
		return apologyMessage
	}
	return strings.TrimSpace(resp.Content)
}

// chitchat produces a light acknowledgment, falling back to a static
// line when the completion fails.
func (c *Controller) chitchat(ctx context.Context, text string) string {
	resp, err := c.Client.Complete(ctx, llm.ChitchatPrompt(text))
	if err != nil || strings.TrimSpace(resp.Content) == "" {
		return chitchatFallback
	}
	return strings.TrimSpace(resp.Content)
}

func flattenRecord(r model.Record) string {
	keys := make([]string, 0, len(r))
	for k := range r {
		if k == "type" || k == "date" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, r[k])
	}
	return strings.Join(parts, " ")
}
