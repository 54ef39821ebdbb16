package notificator

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/frkn-dev/trialgate/pkg/logger"
	"github.com/go-telegram/bot"
	tgModels "github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

// TelegramNotificator pings users on telegram after activation. Bots
// cannot message a user by handle, so a user has to /start the bot
// once; the handler records username -> chat ID in memory.
type TelegramNotificator struct {
	logger *logger.Logger
	bot    *bot.Bot

	mu    sync.Mutex
	chats map[string]int64
}

// NewTelegramNotificator creates the notificator and starts the bot's
// update loop.
func NewTelegramNotificator(logger *logger.Logger, token string) (*TelegramNotificator, error) {
	n := &TelegramNotificator{
		logger: logger,
		chats:  make(map[string]int64),
	}
	opts := []bot.Option{
		bot.WithDefaultHandler(n.handler),
	}

	b, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	n.bot = b
	go b.Start(context.Background())

	return n, nil
}

// SendActivation messages the user behind the handle, if they have
// started the bot. Unknown handles are only logged.
func (t *TelegramNotificator) SendActivation(handle string, subID uuid.UUID) {
	username := strings.TrimPrefix(handle, "@")

	t.mu.Lock()
	chatID, known := t.chats[username]
	t.mu.Unlock()

	if !known {
		t.logger.Debug("No chat known for telegram handle", "handle", handle)
		return
	}

	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("Your FRKN trial is activated 🎉\nSubscription ID: %s", subID),
	}
	if _, err := t.bot.SendMessage(context.Background(), params); err != nil {
		t.logger.Error("Failed to send telegram notification: ", err)
	}
}

func (t *TelegramNotificator) handler(ctx context.Context, b *bot.Bot, update *tgModels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	user := update.Message.From
	if update.Message.Text != "/start" || user.Username == "" {
		return
	}

	t.mu.Lock()
	t.chats[user.Username] = update.Message.Chat.ID
	t.mu.Unlock()

	t.logger.Info("Telegram chat registered", "username", user.Username)

	params := &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   "You will receive FRKN trial notifications here.",
	}
	if _, err := b.SendMessage(ctx, params); err != nil {
		t.logger.Error("Failed to send telegram confirmation: ", err)
	}
}
