// Package notificator delivers activation notifications. Delivery is
// best-effort: failures are logged and never fail the trial.
package notificator

import (
	"runtime/debug"

	"github.com/frkn-dev/trialgate/pkg/logger"
	"github.com/google/uuid"
)

// Notificator fans an activation out to the configured channels.
type Notificator struct {
	logger *logger.Logger

	email    *EmailNotificator
	telegram *TelegramNotificator
}

// NewNotificator creates the facade. telegram may be nil when no bot
// token is configured.
func NewNotificator(logger *logger.Logger, email *EmailNotificator, telegram *TelegramNotificator) *Notificator {
	return &Notificator{logger: logger, email: email, telegram: telegram}
}

// NotifyActivation sends the activation email when an address is
// present and a telegram ping when a handle is present and the bot is
// enabled. Errors are logged, not returned.
func (n *Notificator) NotifyActivation(email, telegram string, subID uuid.UUID) {
	if email != "" {
		n.safeCall(func() {
			if err := n.email.SendActivation(email, subID); err != nil {
				n.logger.Error("Failed to send activation email: ", err)
			}
		}, "emailNotification")
	}
	if telegram != "" && n.telegram != nil {
		n.safeCall(func() { n.telegram.SendActivation(telegram, subID) }, "telegramNotification")
	}
}

// safeCall runs a notification channel with panic recovery.
func (n *Notificator) safeCall(fn func(), context string) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("Notification panicked",
				"context", context,
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}
