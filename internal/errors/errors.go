package errors

import (
	"errors"
	"fmt"
)

// Domain error taxonomy for the banking ledger. Every failure here is a
// recoverable, caller-visible outcome; none of them leaves state mutated.
var (
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrAccountNotActive       = errors.New("account is not active")
	ErrDailyLimitExceeded     = errors.New("daily withdrawal limit exceeded")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrWithdrawalNotPermitted = errors.New("withdrawals are not permitted on this account")
	ErrAccountNotFound        = errors.New("account not found")
	ErrClientNotFound         = errors.New("client not found")
	ErrDuplicateClientID      = errors.New("client id already registered")
	ErrInvalidVariant         = errors.New("invalid account variant")
	ErrNegativeBalance        = errors.New("initial balance cannot be negative")
	ErrSameTransferAccount    = errors.New("source and destination accounts cannot be the same")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// InvalidTransitionError rejects an administrative status change the
// account state machine does not allow.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

func NewInvalidTransitionError(from, to string) error {
	return &InvalidTransitionError{From: from, To: to}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound) || errors.Is(err, ErrClientNotFound)
}

func IsInsufficientFunds(err error) bool {
	return errors.Is(err, ErrInsufficientFunds)
}

func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

func IsInvalidTransition(err error) bool {
	var transitionErr *InvalidTransitionError
	return errors.As(err, &transitionErr)
}

func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateClientID)
}

// IsRejectedOperation reports whether err is a variant-rule rejection of an
// otherwise well-formed operation (as opposed to a malformed request or a
// lookup miss).
func IsRejectedOperation(err error) bool {
	return errors.Is(err, ErrAccountNotActive) ||
		errors.Is(err, ErrDailyLimitExceeded) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrWithdrawalNotPermitted)
}
