package validation

import (
	"fmt"
	"net/mail"
)

// ValidateEmail validates an email address format
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("invalid email address: %w", err)
	}

	// Reject "Name <addr>" forms, only the bare address is accepted
	if addr.Address != email {
		return fmt.Errorf("email must be a bare address, got %q", email)
	}

	return nil
}
