// Package trial orchestrates trial activation: idempotency admission,
// subscription creation, per-protocol connection fan-out, journaling
// and notification.
package trial

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/frkn-dev/trialgate/internal/gate"
	"github.com/frkn-dev/trialgate/internal/models"
	"github.com/frkn-dev/trialgate/pkg/logger"
	"github.com/google/uuid"
)

const (
	// DefaultDays is the trial subscription length.
	DefaultDays = 1
	// DefaultEnv is used when the request carries no env, and always
	// for connection creation.
	DefaultEnv = "dev"
)

var (
	// ErrAlreadyRequested means the email has already activated a trial.
	ErrAlreadyRequested = errors.New("trial already requested")
	// ErrSubscriptionFailed means upstream subscription creation failed.
	ErrSubscriptionFailed = errors.New("failed to create subscription")
)

// Service implements models.TrialService.
type Service struct {
	logger *logger.Logger

	gate        *gate.Gate
	provisioner models.Provisioner
	journal     models.Journal
	notifier    models.Notifier
}

// NewService wires the activation pipeline.
func NewService(
	logger *logger.Logger,
	gate *gate.Gate,
	provisioner models.Provisioner,
	journal models.Journal,
	notifier models.Notifier,
) models.TrialService {
	return &Service{
		logger:      logger,
		gate:        gate,
		provisioner: provisioner,
		journal:     journal,
		notifier:    notifier,
	}
}

// Activate runs the pipeline for a validated request.
//
// Subscription failure is fatal for the request; the admission stays
// in place so the same email cannot immediately retry. Connection,
// journal and notification failures are logged and the trial still
// counts as activated. Requests without an email (source-only) skip
// the gate, the journal and the email entirely.
func (s *Service) Activate(ctx context.Context, req *models.TrialRequest) (uuid.UUID, error) {
	now := time.Now().UTC()

	if req.Email != nil {
		if !s.gate.TryAdmit(*req.Email, now) {
			return uuid.Nil, ErrAlreadyRequested
		}
	}

	env := DefaultEnv
	if req.Env != nil {
		env = *req.Env
	}
	referredBy := models.SourceSite
	if req.Source != nil {
		referredBy = *req.Source
	}

	subID, err := s.provisioner.CreateSubscription(ctx, env, DefaultDays, referredBy)
	if err != nil {
		s.logger.Error("Failed to create subscription", "error", err)
		return uuid.Nil, fmt.Errorf("%w: %v", ErrSubscriptionFailed, err)
	}

	s.createConnections(ctx, subID)

	if req.Email != nil {
		telegram := ""
		if req.Telegram != nil {
			telegram = *req.Telegram
		}

		entry := &models.JournalEntry{
			Timestamp: now,
			Email:     *req.Email,
			Telegram:  telegram,
			SubID:     subID,
			Env:       DefaultEnv,
		}
		if err := s.journal.Append(entry); err != nil {
			s.logger.Error("Failed to append trial journal", "error", err)
		}

		s.notifier.NotifyActivation(*req.Email, telegram, subID)
	}

	return subID, nil
}

// createConnections fans one connection request per protocol out in
// parallel and waits for all of them. Individual failures are logged
// and ignored. Connection creation always targets the default env.
func (s *Service) createConnections(ctx context.Context, subID uuid.UUID) {
	var wg sync.WaitGroup
	for _, proto := range models.Protocols {
		wg.Add(1)
		go func(proto models.Protocol) {
			defer wg.Done()

			var token *uuid.UUID
			if proto.RequiresToken() {
				fresh := uuid.New()
				token = &fresh
			}

			if _, err := s.provisioner.CreateConnection(ctx, DefaultEnv, proto, subID, token); err != nil {
				s.logger.Error("Failed to create connection", "proto", proto.String(), "error", err)
			}
		}(proto)
	}
	wg.Wait()
}
