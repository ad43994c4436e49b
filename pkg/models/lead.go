package models

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

// ErrInvalidLead is wrapped by every Lead validation failure.
var ErrInvalidLead = errors.New("invalid lead")

// Lead is a prospect captured by the demo-request form.
type Lead struct {
	Name     string `json:"name"`
	Company  string `json:"company"`
	Position string `json:"position"`
	Email    string `json:"email"`
}

// Normalize returns a copy of l with surrounding whitespace removed.
func (l Lead) Normalize() Lead {
	return Lead{
		Name:     strings.TrimSpace(l.Name),
		Company:  strings.TrimSpace(l.Company),
		Position: strings.TrimSpace(l.Position),
		Email:    strings.TrimSpace(l.Email),
	}
}

// Validate checks that every field is present and the email parses.
func (l Lead) Validate() error {
	fields := []struct {
		name, value string
	}{
		{"name", l.Name},
		{"company", l.Company},
		{"position", l.Position},
		{"email", l.Email},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidLead, f.name)
		}
	}
	if _, err := mail.ParseAddress(l.Email); err != nil {
		return fmt.Errorf("%w: email %q is not a valid address", ErrInvalidLead, l.Email)
	}
	return nil
}
