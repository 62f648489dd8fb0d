// Package apperrors defines the error taxonomy shared by the stores, the
// checkout pipeline and the HTTP layer.
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyCart blocks a checkout with no items.
	ErrEmptyCart = errors.New("your cart is empty")

	ErrOrderNotFound = errors.New("order not found")
)

// FieldError is one rejected field with a user-facing message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is a user-correctable input rejection (400).
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages(), "; ")
}

// Add records a message for field. Only the first message per field is kept.
func (e *ValidationError) Add(field, message string) {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return
		}
	}
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

// Empty reports whether no field was rejected.
func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Errors) == 0
}

// Messages lists the messages in the order they were added.
func (e *ValidationError) Messages() []string {
	out := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		out = append(out, fe.Message)
	}
	return out
}

// Map returns field -> message.
func (e *ValidationError) Map() map[string]string {
	out := make(map[string]string, len(e.Errors))
	for _, fe := range e.Errors {
		out[fe.Field] = fe.Message
	}
	return out
}

// PersistenceError is an infrastructure failure of a store (500). The
// previous persisted state is left untouched.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Persistence wraps err unless it is nil.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

// NotificationError is a failed best-effort notification. It never aborts
// an order.
type NotificationError struct {
	Channel string
	Err     error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification via %s failed: %v", e.Channel, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
