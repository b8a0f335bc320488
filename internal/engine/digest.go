package engine

import (
	"context"
	"fmt"
	"strings"

	"lifelog/internal/llm"
)

const digestWindowDays = 7

// noDigestData is sent when a digest is requested but nothing was
// logged in the window.
const noDigestData = "It's time for your weekly digest! 📊\n" +
	"But it looks like you haven't logged any data this week. " +
	"Let's start tracking next week!"

// WeeklyDigest summarizes the last seven days of records for a user
// into an encouraging recap.
func (c *Controller) WeeklyDigest(ctx context.Context, threadID string) (string, error) {
	since := c.Now().AddDate(0, 0, -digestWindowDays).Format("2006-01-02")
	recs, err := c.Store.RecordsSince(threadID, since)
	if err != nil {
		return "", fmt.Errorf("digest lookup for thread %s: %w", threadID, err)
	}
	if len(recs) == 0 {
		return noDigestData, nil
	}

	var b strings.Builder
	for _, r := range recs {
		fmt.Fprintf(&b, "%s %s: %s\n", r.Date, r.Type, flattenRecord(r.Data))
	}
	resp, err := c.Client.Complete(ctx, llm.DigestPrompt(b.String()))
	if err != nil {
		return "", fmt.Errorf("digest completion for thread %s: %w", threadID, err)
	}
	return strings.TrimSpace(resp.Content), nil
}
