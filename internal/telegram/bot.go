// Package telegram adapts the Telegram Bot API as the gateway's chat
// transport: one long-polling loop for inbound commands, plus the Send
// method shared with the relay endpoint.
package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/perepilka/content-notify/internal/logging"
	"github.com/perepilka/content-notify/internal/models"
)

const pollTimeoutSeconds = 30

// commandProcessor handles the user-facing commands; replies come back fully
// rendered, so the transport never has to interpret errors.
type commandProcessor interface {
	HandleStart(ctx context.Context, user models.ExternalUser) string
	HandleHelp(ctx context.Context, user models.ExternalUser) string
	HandleAdd(ctx context.Context, user models.ExternalUser, args string) string
	HandleList(ctx context.Context, user models.ExternalUser) string
	HandleRemove(ctx context.Context, user models.ExternalUser, args string) string
}

// Bot wraps the Telegram Bot API client. Safe for concurrent use: the polling
// loop and the relay endpoint share one instance.
type Bot struct {
	api       *tgbotapi.BotAPI
	processor commandProcessor
}

// NewBot authenticates against the Telegram Bot API.
func NewBot(token string, processor commandProcessor) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	slog.Info("Telegram bot authorized", "username", api.Self.UserName)

	return &Bot{
		api:       api,
		processor: processor,
	}, nil
}

// Send delivers text to a chat with HTML formatting. Used by both the command
// loop and the relay endpoint.
func (b *Bot) Send(_ context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
	}
	return nil
}

// Run long-polls Telegram for updates and dispatches commands until ctx is
// cancelled. Each update is handled in its own goroutine; a failed or
// panicking command never terminates the loop.
func (b *Bot) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeoutSeconds

	updates := b.api.GetUpdatesChan(cfg)
	slog.Info("Command polling started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			slog.Info("Command polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic while handling update", "panic", r)
		}
	}()

	msg := update.Message
	if msg == nil || !msg.IsCommand() || msg.From == nil {
		return
	}

	user := models.ExternalUser{
		ID:       msg.From.ID,
		Username: msg.From.UserName,
	}

	reply, ok := dispatch(ctx, b.processor, user, msg.Command(), msg.CommandArguments())
	if !ok {
		return
	}

	if err := b.Send(ctx, msg.Chat.ID, reply); err != nil {
		logging.WithChat(msg.Chat.ID).Error("Failed to send command reply", "error", err)
	}
}

// dispatch routes a command to its processor handler. Unknown commands are
// ignored rather than answered.
func dispatch(ctx context.Context, p commandProcessor, user models.ExternalUser, command, args string) (string, bool) {
	switch command {
	case "start":
		return p.HandleStart(ctx, user), true
	case "help":
		return p.HandleHelp(ctx, user), true
	case "add":
		return p.HandleAdd(ctx, user, args), true
	case "list":
		return p.HandleList(ctx, user), true
	case "remove":
		return p.HandleRemove(ctx, user, args), true
	default:
		return "", false
	}
}
