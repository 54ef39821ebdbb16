package models

import (
	"time"

	"github.com/frkn-dev/trialgate/pkg/validation"
	"github.com/google/uuid"
)

// TrialSource identifies where a trial request came from.
type TrialSource string

const (
	SourceMobile TrialSource = "Mobile"
	SourceSite   TrialSource = "Site"
)

// Valid reports whether the source is one of the known labels.
func (s TrialSource) Valid() bool {
	return s == SourceMobile || s == SourceSite
}

// ReferralLabel returns the referred_by value sent to the upstream API.
func (s TrialSource) ReferralLabel() string {
	if s == SourceMobile {
		return "trial-mobile"
	}
	return "trial-site"
}

// TrialRequest is the JSON body of POST /trial.
type TrialRequest struct {
	Email    *string      `json:"email"`
	Telegram *string      `json:"telegram"`
	Source   *TrialSource `json:"source"`
	Env      *string      `json:"env"`
}

// Validate reports whether the request is well-formed: exactly one of
// email and source must be present, and a present email must parse as
// an address.
func (r *TrialRequest) Validate() bool {
	if (r.Email == nil) == (r.Source == nil) {
		return false
	}
	if r.Source != nil && !r.Source.Valid() {
		return false
	}
	if r.Email != nil {
		if err := validation.ValidateEmail(*r.Email); err != nil {
			return false
		}
	}
	return true
}

// TrialResponse is the JSON body returned by POST /trial. Failures are
// carried in Status/Message, never as a non-200 HTTP status.
type TrialResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	SubID   *string `json:"sub_id"`
}

// JournalEntry is one granted trial as recorded in the trials file.
type JournalEntry struct {
	Timestamp time.Time
	Email     string
	Telegram  string
	SubID     uuid.UUID
	Env       string
}
