// Package validation checks registration form submissions. Rules run in a
// fixed order and stop at the first violation, so a submission only ever
// shows a single error message.
package validation

import (
	"context"
	"strings"

	"github.com/gistgate/internal/domain"
)

// RegistrationForm carries the submitted registration fields.
type RegistrationForm struct {
	Username  string
	Email     string
	Password  string
	Password2 string
}

const (
	msgFillAllFields = "Please fill all fields"
	msgInvalidEmail  = "Invalid email address"
	msgPasswordMatch = "Password don't match"
)

const (
	minEmailLen    = 6
	minUsernameLen = 2
	minPasswordLen = 4
)

// ValidateRegistration applies the registration rules in order: missing
// fields, malformed email, mismatched passwords, username taken, email
// taken. Uniqueness is checked against the store; the store's UNIQUE
// constraints remain the authority at insert time.
func ValidateRegistration(ctx context.Context, store domain.CredentialStore, form RegistrationForm) error {
	if form.Email == "" ||
		len(form.Username) < minUsernameLen ||
		len(form.Password) < minPasswordLen ||
		len(form.Password2) < minPasswordLen {
		return domain.NewValidationError(msgFillAllFields)
	}

	if len(form.Email) < minEmailLen ||
		!strings.Contains(form.Email, "@") || !strings.Contains(form.Email, ".") {
		return domain.NewValidationError(msgInvalidEmail)
	}

	if form.Password != form.Password2 {
		return domain.NewValidationError(msgPasswordMatch)
	}

	inUse, err := store.IsUsernameInUse(ctx, form.Username)
	if err != nil {
		return err
	}
	if inUse {
		return domain.ErrUsernameTaken
	}

	inUse, err = store.IsEmailInUse(ctx, form.Email)
	if err != nil {
		return err
	}
	if inUse {
		return domain.ErrEmailTaken
	}

	return nil
}
