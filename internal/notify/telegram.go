package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const TelegramMaxLength = 4096

type chattableSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram mirrors every summary into one configured chat, whatever the
// recipient. The bot is created on first use because creating it calls the
// Telegram API.
type Telegram struct {
	token  string
	chatID int64

	mu  sync.Mutex
	bot chattableSender
}

func NewTelegram(token string, chatID int64) *Telegram {
	return &Telegram{token: strings.TrimSpace(token), chatID: chatID}
}

func (t *Telegram) Name() string { return "telegram" }

func (t *Telegram) Configured() bool {
	return t.token != "" && t.chatID != 0
}

func (t *Telegram) MaxLength() int { return TelegramMaxLength }

func (t *Telegram) client() (chattableSender, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.bot != nil {
		return t.bot, nil
	}
	bot, err := tgbotapi.NewBotAPI(t.token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	t.bot = bot
	return bot, nil
}

func (t *Telegram) Send(ctx context.Context, _ string, body string) error {
	if !t.Configured() {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	bot, err := t.client()
	if err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, truncate(body, TelegramMaxLength))
	msg.DisableWebPagePreview = true
	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	return nil
}
