package notifier

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const telegramTimeout = 10 * time.Second

// Telegram sends notifications to a single chat through a bot. The bot is
// created on the first Notify, so an unreachable Bot API surfaces as a
// delivery failure rather than a startup error.
type Telegram struct {
	token    string
	endpoint string
	chatID   int64
	client   *http.Client

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
}

// NewTelegram validates the bot settings. It does not contact the Bot API.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	return NewTelegramWithEndpoint(token, chatID, tgbotapi.APIEndpoint)
}

// NewTelegramWithEndpoint is NewTelegram against a custom Bot API endpoint,
// e.g. a self-hosted server. endpoint uses the tgbotapi.APIEndpoint format.
func NewTelegramWithEndpoint(token string, chatID int64, endpoint string) (*Telegram, error) {
	if token == "" {
		return nil, errors.New("telegram token is empty")
	}
	if chatID == 0 {
		return nil, errors.New("telegram chat_id is not set")
	}
	return &Telegram{
		token:    token,
		endpoint: endpoint,
		chatID:   chatID,
		client:   &http.Client{Timeout: telegramTimeout},
	}, nil
}

func (t *Telegram) Name() string { return "telegram" }

func (t *Telegram) botAPI() (*tgbotapi.BotAPI, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.bot != nil {
		return t.bot, nil
	}
	bot, err := tgbotapi.NewBotAPIWithClient(t.token, t.endpoint, t.client)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	t.bot = bot
	return bot, nil
}

// Notify returns as soon as ctx is done; a request already on the wire is
// left to finish within the client timeout.
func (t *Telegram) Notify(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		bot, err := t.botAPI()
		if err != nil {
			done <- err
			return
		}
		if _, err := bot.Send(tgbotapi.NewMessage(t.chatID, msg.Text())); err != nil {
			done <- fmt.Errorf("failed to send telegram message: %w", err)
			return
		}
		done <- nil
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}
