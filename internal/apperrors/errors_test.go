package apperrors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	ve := &ValidationError{}
	assert.True(t, ve.Empty())

	ve.Add("phone", "Please enter a valid 10-digit phone number")
	ve.Add("email", "Email is required")
	ve.Add("phone", "ignored")

	assert.False(t, ve.Empty())
	assert.Equal(t, []string{"Please enter a valid 10-digit phone number", "Email is required"}, ve.Messages())
	assert.Equal(t, map[string]string{
		"phone": "Please enter a valid 10-digit phone number",
		"email": "Email is required",
	}, ve.Map())

	wrapped := fmt.Errorf("submit: %w", ve)
	assert.True(t, IsValidation(wrapped))
	assert.False(t, IsPersistence(wrapped))
}

func TestPersistenceError(t *testing.T) {
	assert.Nil(t, Persistence("append order", nil))

	err := Persistence("append order", fs.ErrPermission)
	assert.True(t, IsPersistence(err))
	assert.True(t, errors.Is(err, fs.ErrPermission))
	assert.Contains(t, err.Error(), "append order")
}

func TestNotificationError(t *testing.T) {
	err := &NotificationError{Channel: "sms", Err: errors.New("boom")}
	assert.EqualError(t, err, "notification via sms failed: boom")
	assert.Equal(t, "boom", errors.Unwrap(err).Error())
}
