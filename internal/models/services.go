package models

import (
	"context"

	"github.com/google/uuid"
)

// TrialService activates trials. It owns the idempotency decision and
// the partial-failure policy of the provisioning pipeline.
type TrialService interface {
	// Activate runs the full pipeline for a validated request and
	// returns the upstream subscription id.
	Activate(ctx context.Context, req *TrialRequest) (uuid.UUID, error)
}

// Provisioner is the authenticated client of the upstream FRKN API.
type Provisioner interface {
	// CreateSubscription creates a subscription and returns its id.
	CreateSubscription(ctx context.Context, env string, days int, referredBy TrialSource) (uuid.UUID, error)
	// CreateConnection attaches a per-protocol connection to a
	// subscription. token is sent only when non-nil.
	CreateConnection(ctx context.Context, env string, proto Protocol, subID uuid.UUID, token *uuid.UUID) (uuid.UUID, error)
}

// Journal records granted trials durably.
type Journal interface {
	Append(entry *JournalEntry) error
}

// Notifier delivers activation notifications. Implementations are
// best-effort and log their own failures.
type Notifier interface {
	NotifyActivation(email, telegram string, subID uuid.UUID)
}

// APIServer is the inbound HTTP surface.
type APIServer interface {
	Start()
	Shutdown() error
}
