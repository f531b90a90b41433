package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram sends messages to one chat through a bot.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    *slog.Logger
}

// NewTelegram authenticates the bot against the Telegram API.
func NewTelegram(token string, chatID int64, logger *slog.Logger) (*Telegram, error) {
	return NewTelegramWithEndpoint(token, chatID, tgbotapi.APIEndpoint, http.DefaultClient, logger)
}

// NewTelegramWithEndpoint is NewTelegram against a custom endpoint, a format
// string taking the token and the method name. Used by tests.
func NewTelegramWithEndpoint(token string, chatID int64, endpoint string, client *http.Client, logger *slog.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram: connect bot: %w", err)
	}
	return &Telegram{
		bot:    bot,
		chatID: chatID,
		log:    logger.With("adapter", "telegram"),
	}, nil
}

// Notify sends msg as a plain text message.
func (t *Telegram) Notify(ctx context.Context, msg string) error {
	sent, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, msg))
	if err != nil {
		return fmt.Errorf("telegram: send message: %w", err)
	}
	t.log.DebugContext(ctx, "message sent", slog.Int64("chat_id", t.chatID), slog.Int("message_id", sent.MessageID))
	return nil
}
