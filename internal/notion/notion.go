// Package notion appends logged entries as blocks to per-category
// Notion pages. Sync is best-effort: each category fails independently
// and the caller reports failures without aborting the save.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"lifelog/internal/config"
	"lifelog/internal/model"
)

const apiBase = "https://api.notion.com/v1"

// apiVersion pins the Notion API revision we speak.
const apiVersion = "2022-06-28"

// Client talks to the Notion blocks API directly.
type Client struct {
	cfg    config.NotionConfig
	client *http.Client
	log    *log.Logger
	now    func() time.Time
	base   string
}

// New creates a Notion client. Returns nil when sync is disabled or no
// API key is configured; a nil *Client is not usable, callers gate on
// it.
func New(cfg config.NotionConfig, logger *log.Logger) *Client {
	if !cfg.Enabled || cfg.APIKey == "" {
		return nil
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		log:    logger,
		now:    time.Now,
		base:   apiBase,
	}
}

// block is one Notion block object in a children append request.
type block map[string]any

func textBlock(blockType, content string) block {
	return block{
		"object": "block",
		"type":   blockType,
		blockType: map[string]any{
			"rich_text": []map[string]any{
				{"type": "text", "text": map[string]any{"content": content}},
			},
		},
	}
}

func todoBlock(content string) block {
	return block{
		"object": "block",
		"type":   "to_do",
		"to_do": map[string]any{
			"rich_text": []map[string]any{
				{"type": "text", "text": map[string]any{"content": content}},
			},
			"checked": false,
		},
	}
}

func linkBlock(content, url string) block {
	return block{
		"object": "block",
		"type":   "paragraph",
		"paragraph": map[string]any{
			"rich_text": []map[string]any{
				{"type": "text", "text": map[string]any{
					"content": content,
					"link":    map[string]any{"url": url},
				}},
			},
		},
	}
}

// Append pushes each populated category of the candidate to its page.
// Categories with no configured page are skipped silently. Returns the
// names of the categories that failed.
func (c *Client) Append(ctx context.Context, cand *model.Candidate) []string {
	var failed []string

	fail := func(category string, err error) {
		c.log.Error("notion sync failed", "category", category, "err", err)
		failed = append(failed, category)
	}

	if len(cand.Tasks) > 0 && c.cfg.ToDoPageID != "" {
		blocks := make([]block, len(cand.Tasks))
		for i, t := range cand.Tasks {
			blocks[i] = todoBlock(t.Task + prioritySuffix(t.Priority))
		}
		if err := c.appendBlocks(ctx, c.cfg.ToDoPageID, blocks); err != nil {
			fail("tasks", err)
		}
	}

	if len(cand.ReadingLinks) > 0 && c.cfg.ToReadPageID != "" {
		blocks := make([]block, len(cand.ReadingLinks))
		for i, l := range cand.ReadingLinks {
			content := "🔖 "
			if l.Context != "" {
				content += l.Context + " - "
			}
			content += l.URL
			blocks[i] = linkBlock(content, l.URL)
		}
		if err := c.appendBlocks(ctx, c.cfg.ToReadPageID, blocks); err != nil {
			fail("reading_links", err)
		}
	}

	if cand.Sleep != nil && c.cfg.SleepPageID != "" {
		b := textBlock("bulleted_list_item", sleepText(cand.Sleep))
		if err := c.appendBlocks(ctx, c.cfg.SleepPageID, []block{b}); err != nil {
			fail("sleep", err)
		}
	}

	if len(cand.Exercise) > 0 && c.cfg.ExercisePageID != "" {
		blocks := make([]block, len(cand.Exercise))
		for i := range cand.Exercise {
			blocks[i] = textBlock("bulleted_list_item", exerciseText(&cand.Exercise[i]))
		}
		if err := c.appendBlocks(ctx, c.cfg.ExercisePageID, blocks); err != nil {
			fail("exercise", err)
		}
	}

	if cand.Wellness != nil && c.cfg.WellnessPageID != "" {
		b := textBlock("bulleted_list_item", wellnessText(cand.Wellness))
		if err := c.appendBlocks(ctx, c.cfg.WellnessPageID, []block{b}); err != nil {
			fail("wellness", err)
		}
	}

	if cand.JournalNote != "" && c.cfg.JournalPageID != "" {
		text := fmt.Sprintf("📝 %s: %s", c.now().Format("2006-01-02"), cand.JournalNote)
		if err := c.appendBlocks(ctx, c.cfg.JournalPageID, []block{textBlock("paragraph", text)}); err != nil {
			fail("journal_note", err)
		}
	}

	return failed
}

// appendBlocks PATCHes children onto a page.
func (c *Client) appendBlocks(ctx context.Context, pageID string, blocks []block) error {
	body, err := json.Marshal(map[string]any{"children": blocks})
	if err != nil {
		return fmt.Errorf("marshal blocks: %w", err)
	}

	url := fmt.Sprintf("%s/blocks/%s/children", c.base, pageID)
	req, err := http.NewRequestWithContext(ctx, "PATCH", url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Notion-Version", apiVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("notion api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("notion api status %d: %s", resp.StatusCode, respBody)
	}
	return nil
}

func prioritySuffix(p *int) string {
	if p == nil {
		return ""
	}
	switch *p {
	case 1:
		return " 🔥 [High]"
	case 2:
		return " ⚡ [Med]"
	case 3:
		return " 💡 [Low]"
	}
	return ""
}

func sleepText(s *model.SleepEntry) string {
	text := "🛏️ Date: " + s.Date
	if s.DurationHours != nil {
		text += fmt.Sprintf(" | Duration: %v hrs", *s.DurationHours)
	}
	if s.Quality != nil {
		text += " | Quality: " + string(*s.Quality)
	}
	if s.Notes != "" {
		text += " | Notes: " + s.Notes
	}
	return text
}

func exerciseText(e *model.ExerciseEntry) string {
	text := "🏃 Date: " + e.Date
	if e.ExerciseType != nil {
		text += " | " + title(string(*e.ExerciseType))
	}
	if e.DurationMinutes != nil {
		text += fmt.Sprintf(" | %d mins", *e.DurationMinutes)
	}
	if e.Intensity != nil {
		text += fmt.Sprintf(" | Intensity: %d", *e.Intensity)
	}
	if e.DistanceKm != nil {
		text += fmt.Sprintf(" | Distance: %vkm", *e.DistanceKm)
	}
	if len(e.BodyParts) > 0 {
		parts := make([]string, len(e.BodyParts))
		for i, p := range e.BodyParts {
			parts[i] = title(strings.ReplaceAll(string(p), "_", " "))
		}
		text += " | Body: " + strings.Join(parts, ", ")
	}
	if e.Notes != "" {
		text += " | Notes: " + e.Notes
	}
	return text
}

func wellnessText(w *model.WellnessEntry) string {
	text := "🧘 Date: " + w.Date
	if w.TimeOfDay != "" {
		text += " @ " + w.TimeOfDay
	}
	if w.MeditationMinutes != nil {
		text += fmt.Sprintf(" | Meditation: %d mins", *w.MeditationMinutes)
	}
	if w.MeditationType != nil {
		text += " (" + title(strings.ReplaceAll(string(*w.MeditationType), "_", " ")) + ")"
	}
	if w.MoodScore != nil {
		text += fmt.Sprintf(" | Mood: %d/10", *w.MoodScore)
	}
	if w.EnergyLevel != nil {
		text += fmt.Sprintf(" | Energy: %d/10", *w.EnergyLevel)
	}
	if w.Notes != "" {
		text += " | Notes: " + w.Notes
	}
	return text
}

func title(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
