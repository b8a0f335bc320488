package telegram

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"lifelog/internal/config"
	"lifelog/internal/engine"
)

const greeting = "Hello! I'm your lifelog assistant. Tell me about your sleep, workouts, or anything you'd like to remember."

const unauthorizedReply = "Unauthorized access."

// Bot runs the Telegram message loop against the turn controller. One
// bot serves a single authorized chat; messages from any other chat
// are refused.
type Bot struct {
	client *Client
	ctrl   *engine.Controller
	cfg    config.TelegramConfig
	log    *log.Logger
}

// NewBot wires the bot transport.
func NewBot(cfg config.TelegramConfig, ctrl *engine.Controller, logger *log.Logger) *Bot {
	if logger == nil {
		logger = log.Default()
	}
	return &Bot{
		client: NewClient(cfg.BotToken),
		ctrl:   ctrl,
		cfg:    cfg,
		log:    logger,
	}
}

// Run long-polls for updates until the context is cancelled. Transient
// poll errors are logged and retried after a short pause.
func (b *Bot) Run(ctx context.Context) error {
	b.log.Info("telegram bot started", "chat", b.cfg.ChatID)
	b.startJobs(ctx)

	var offset int64
	for {
		updates, err := b.client.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			b.log.Warn("poll failed, retrying", "err", err)
			select {
			case <-time.After(5 * time.Second):
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		for _, u := range updates {
			offset = u.UpdateID + 1
			b.handleUpdate(ctx, u)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, u Update) {
	msg := u.Message
	if msg == nil || msg.Text == "" {
		return
	}

	if msg.Chat.ID != b.cfg.ChatID {
		b.log.Warn("unauthorized chat", "chat", msg.Chat.ID)
		b.reply(ctx, msg.Chat.ID, unauthorizedReply)
		return
	}

	if msg.Text == "/start" {
		b.reply(ctx, msg.Chat.ID, greeting)
		return
	}

	threadID := strconv.FormatInt(msg.Chat.ID, 10)
	response, err := b.ctrl.HandleTurn(ctx, threadID, msg.Text)
	if err != nil {
		b.log.Error("turn failed", "thread", threadID, "err", err)
		response = "Something went wrong while saving that. Please try again."
	}
	if response == "" {
		response = "Noted."
	}
	b.reply(ctx, msg.Chat.ID, response)
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if err := b.client.SendMessage(ctx, chatID, text); err != nil && !errors.Is(err, context.Canceled) {
		b.log.Error("send failed", "chat", chatID, "err", err)
	}
}
