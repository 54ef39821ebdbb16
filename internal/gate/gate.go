// Package gate holds the process-wide idempotency index that enforces
// the one-trial-per-email policy.
package gate

import (
	"sync"
	"time"
)

// Gate maps an email to the timestamp of its first successful
// admission. Entries are never removed for the lifetime of the
// process, including when provisioning fails after admission.
type Gate struct {
	mu       sync.Mutex
	admitted map[string]time.Time
}

// New creates a gate seeded from the journal's startup load. seed may
// be nil.
func New(seed map[string]time.Time) *Gate {
	admitted := make(map[string]time.Time, len(seed))
	for email, ts := range seed {
		admitted[email] = ts
	}
	return &Gate{admitted: admitted}
}

// TryAdmit atomically tests and sets the given email. It returns true
// and records now when the email was not seen before, false with no
// mutation otherwise. Concurrent calls for the same email admit at
// most one caller.
func (g *Gate) TryAdmit(email string, now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.admitted[email]; exists {
		return false
	}
	g.admitted[email] = now
	return true
}

// AdmittedAt returns the first-admission timestamp for an email.
func (g *Gate) AdmittedAt(email string) (time.Time, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ts, ok := g.admitted[email]
	return ts, ok
}

// Len returns the number of admitted emails.
func (g *Gate) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.admitted)
}
