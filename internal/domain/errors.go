package domain

import (
	"errors"
	"fmt"
)

// Rule violation kinds. Every validation failure wraps exactly one of these,
// so callers can match with errors.Is regardless of the specific reason.
var (
	// ErrUserNotValid is returned when a User field fails a format or range check.
	ErrUserNotValid = errors.New("user not valid")

	// ErrItemNotValid is returned when an Item field fails a format or range check,
	// or when adding the item would break a list invariant (duplicate name,
	// creation date too close to an existing item).
	ErrItemNotValid = errors.New("item not valid")

	// ErrTodolistMaximumCapacity is returned when an item is added to a full list.
	ErrTodolistMaximumCapacity = errors.New("todo list is full")
)

// ErrPersistenceFailed marks a failure of the persistence trigger that runs
// after a successful add. It is an infrastructure failure, not a rule violation.
var ErrPersistenceFailed = errors.New("failed to persist todo list")

// Reasons reported inside ValidationError.
const (
	ReasonEmail              = "Email is not valid"
	ReasonPassword           = "Password is not valid"
	ReasonFirstName          = "First name is not valid"
	ReasonLastName           = "Last name is not valid"
	ReasonBirthDate          = "Birth date is not valid"
	ReasonContentTooLong     = "Content is too long"
	ReasonItemName           = "Name is not valid"
	ReasonDuplicateItem      = "Item already exists in user todo list"
	ReasonItemTooClose       = "Item creation date is too close to another item"
	ReasonTodolistAtCapacity = "Todo list is full"
)

// ValidationError is a rule violation. Kind is one of ErrUserNotValid,
// ErrItemNotValid or ErrTodolistMaximumCapacity.
type ValidationError struct {
	Kind   error
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Reason)
}

// Unwrap returns the violation kind so errors.Is works against the sentinels.
func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func userInvalid(reason string) error {
	return &ValidationError{Kind: ErrUserNotValid, Reason: reason}
}

func itemInvalid(reason string) error {
	return &ValidationError{Kind: ErrItemNotValid, Reason: reason}
}

func capacityExceeded() error {
	return &ValidationError{Kind: ErrTodolistMaximumCapacity, Reason: ReasonTodolistAtCapacity}
}

// IsValidationError reports whether err is a rule violation of any kind.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// ReasonOf returns the human-readable reason of a rule violation, or an empty
// string when err is not one.
func ReasonOf(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Reason
	}
	return ""
}
