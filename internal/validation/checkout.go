package validation

import "strings"

// CheckoutForm is the delivery form filled before placing an order.
type CheckoutForm struct {
	FullName string `json:"fullName" validate:"required"`
	Address  string `json:"address" validate:"required"`
	Phone    string `json:"phone" validate:"required,phone10"`
	Email    string `json:"email" validate:"required,storeemail"`
}

var checkoutMessages = map[string]string{
	"fullName.required": "Full name is required",
	"address.required":  "Address is required",
	"phone.required":    "Phone number is required",
	"phone.phone10":     "Please enter a valid 10-digit phone number",
	"email.required":    "Email is required",
	"email.storeemail":  "Please enter a valid email address",
}

// Trimmed returns the form with surrounding whitespace removed from every field.
func (f CheckoutForm) Trimmed() CheckoutForm {
	return CheckoutForm{
		FullName: strings.TrimSpace(f.FullName),
		Address:  strings.TrimSpace(f.Address),
		Phone:    strings.TrimSpace(f.Phone),
		Email:    strings.TrimSpace(f.Email),
	}
}

// ValidateCheckout returns field -> message for every failing field of the
// delivery form; the map is empty when the form can be submitted.
func ValidateCheckout(form CheckoutForm) map[string]string {
	return run(form.Trimmed(), checkoutMessages).Map()
}

// Validate returns a *apperrors.ValidationError listing the failing fields
// in form order, or nil.
func (f CheckoutForm) Validate() error {
	if ve := run(f.Trimmed(), checkoutMessages); !ve.Empty() {
		return ve
	}
	return nil
}
