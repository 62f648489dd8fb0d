package validation

import (
	"strings"

	"groundnut_back_end/internal/apperrors"
	"groundnut_back_end/internal/models"
)

type contactForm struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,storeemail"`
	Message string `json:"message" validate:"max=2000"`
}

var contactMessages = map[string]string{
	"name.required":    "Name is required",
	"name.min":         "Name must be at least 2 characters long",
	"name.max":         "Name cannot exceed 100 characters",
	"email.required":   "Email is required",
	"email.storeemail": "Please provide a valid email address",
	"message.max":      "Message cannot exceed 2000 characters",
}

// NormalizeContact trims every field and lower-cases the e-mail.
func NormalizeContact(in models.ContactInput) models.ContactInput {
	return models.ContactInput{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
		Message: strings.TrimSpace(in.Message),
	}
}

// ValidateContact checks a normalized contact submission. Lengths are counted
// in characters. It returns nil when the submission is valid.
func ValidateContact(in models.ContactInput) *apperrors.ValidationError {
	ve := run(contactForm(in), contactMessages)
	if ve.Empty() {
		return nil
	}
	return ve
}
