package validation

import (
	"strings"

	"groundnut_back_end/internal/apperrors"
	"groundnut_back_end/internal/models"
)

// ValidateOrder checks an incoming order the way checkout does: the delivery
// form first, then the items, then the payment method.
func ValidateOrder(in models.OrderInput) error {
	form := CheckoutForm{FullName: in.Name(), Address: in.Address, Phone: in.Phone, Email: in.Email}
	if err := form.Validate(); err != nil {
		return err
	}
	if len(in.Items) == 0 {
		return apperrors.ErrEmptyCart
	}

	ve := &apperrors.ValidationError{}
	for _, item := range in.Items {
		if strings.TrimSpace(item.ProductID) == "" || item.Quantity < 1 || item.UnitPrice.IsNegative() {
			ve.Add("items", "Every item needs a product id, a price of at least 0 and a quantity of at least 1")
			break
		}
	}
	if in.PaymentMethod != "" && in.PaymentMethod != models.PaymentCashOnDelivery {
		ve.Add("paymentMethod", "Only cash on delivery is supported")
	}
	if !ve.Empty() {
		return ve
	}
	return nil
}
