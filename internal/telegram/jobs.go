package telegram

import (
	"context"
	"strconv"
	"strings"
	"time"
)

const morningCheckin = "Good morning! ☀️\nHow did you sleep last night? Any big plans or exercises for today?"

// digestHour is when the weekly digest goes out on the configured day.
const digestHour = 18

// startJobs launches the scheduled sends: the morning check-in and the
// weekly digest. A minute ticker with fired-date bookkeeping keeps
// each job to once per day without an external scheduler.
func (b *Bot) startJobs(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		var lastCheckin, lastDigest string
		for {
			select {
			case <-ticker.C:
				now := time.Now()
				day := now.Format("2006-01-02")
				if now.Hour() == b.cfg.CheckinHour && day != lastCheckin {
					lastCheckin = day
					b.sendCheckin(ctx)
				}
				if b.digestDue(now) && day != lastDigest {
					lastDigest = day
					b.sendDigest(ctx)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (b *Bot) digestDue(now time.Time) bool {
	return strings.EqualFold(now.Weekday().String(), b.cfg.DigestDay) &&
		now.Hour() == digestHour
}

func (b *Bot) sendCheckin(ctx context.Context) {
	b.log.Info("sending morning check-in", "chat", b.cfg.ChatID)
	b.reply(ctx, b.cfg.ChatID, morningCheckin)
}

func (b *Bot) sendDigest(ctx context.Context) {
	threadID := strconv.FormatInt(b.cfg.ChatID, 10)
	digest, err := b.ctrl.WeeklyDigest(ctx, threadID)
	if err != nil {
		b.log.Error("weekly digest failed", "thread", threadID, "err", err)
		return
	}
	b.log.Info("sending weekly digest", "chat", b.cfg.ChatID)
	b.reply(ctx, b.cfg.ChatID, digest)
}
