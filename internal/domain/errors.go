package domain

import (
	"errors"
	"fmt"
)

// ============================================================================
// Domain Error Types
// ============================================================================

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches domain errors by code so errors.Is works on wrapped copies.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if errors.As(target, &other) {
		return e.Code == other.Code
	}
	return false
}

// ============================================================================
// Common Domain Errors
// ============================================================================

var (
	// Credential errors
	ErrUserNotFound = &DomainError{
		Code:    "USER_NOT_FOUND",
		Message: "User not found!",
	}
	ErrInvalidPassword = &DomainError{
		Code:    "INVALID_PASSWORD",
		Message: "Invalid Password",
	}
	ErrUsernameTaken = &DomainError{
		Code:    "USERNAME_TAKEN",
		Message: "Username is taken",
	}
	ErrEmailTaken = &DomainError{
		Code:    "EMAIL_TAKEN",
		Message: "Email address is already registered",
	}

	// Provider errors
	ErrProviderAuthFailed = &DomainError{
		Code:    "PROVIDER_AUTH_FAILED",
		Message: "Github auth failed!",
	}
	ErrGithubAlreadyLinked = &DomainError{
		Code:    "GITHUB_ALREADY_LINKED",
		Message: "This github account is already linked to another user",
	}

	// Session errors
	ErrSessionNotFound = &DomainError{
		Code:    "SESSION_NOT_FOUND",
		Message: "session not found",
	}

	// Request errors
	ErrCSRFMismatch = &DomainError{
		Code:    "CSRF_MISMATCH",
		Message: "Invalid form submission!",
	}
	ErrValidationFailed = &DomainError{
		Code:    "VALIDATION_FAILED",
		Message: "validation failed",
	}

	// Infrastructure errors
	ErrStoreOperation = &DomainError{
		Code:    "STORE_OPERATION_FAILED",
		Message: "backing store operation failed",
	}
)

// ============================================================================
// Error Wrapping Helpers
// ============================================================================

// WrapStoreOperation wraps an error as a backing store failure
func WrapStoreOperation(operation string, cause error) error {
	return &DomainError{
		Code:    ErrStoreOperation.Code,
		Message: fmt.Sprintf("store operation failed: %s", operation),
		Cause:   cause,
	}
}

// WrapProviderAuthFailed wraps an error as a provider auth failure
func WrapProviderAuthFailed(stage string, cause error) error {
	return &DomainError{
		Code:    ErrProviderAuthFailed.Code,
		Message: ErrProviderAuthFailed.Message,
		Cause:   fmt.Errorf("%s: %w", stage, cause),
	}
}

// NewValidationError creates a validation error carrying the user-facing
// message for the first violated rule
func NewValidationError(message string) error {
	return &DomainError{
		Code:    ErrValidationFailed.Code,
		Message: message,
	}
}

// ============================================================================
// Error Checking Helpers
// ============================================================================

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == ErrUserNotFound.Code ||
			domainErr.Code == ErrSessionNotFound.Code
	}
	return false
}

// IsValidationError checks if an error is a user-correctable input error
func IsValidationError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == ErrValidationFailed.Code ||
			domainErr.Code == ErrUsernameTaken.Code ||
			domainErr.Code == ErrEmailTaken.Code
	}
	return false
}

// IsDuplicateError checks if an error is a uniqueness violation
func IsDuplicateError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == ErrUsernameTaken.Code ||
			domainErr.Code == ErrEmailTaken.Code
	}
	return false
}

// UserMessage extracts a message suitable for rendering to the user.
// Infrastructure errors collapse to a generic message so internals never
// leak into views.
func UserMessage(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		if domainErr.Code == ErrStoreOperation.Code {
			return "Something went wrong, please try again"
		}
		return domainErr.Message
	}
	return "Something went wrong, please try again"
}
