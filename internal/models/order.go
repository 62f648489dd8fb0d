package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const PaymentCashOnDelivery PaymentMethod = "cash-on-delivery"

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type Order struct {
	OrderID       string          `json:"orderId"`
	CustomerName  string          `json:"customerName"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	Address       string          `json:"address"`
	Items         []CartItem      `json:"items"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Status        OrderStatus     `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// OrderInput is the body of POST /api/orders. FullName is the legacy name of
// CustomerName; TotalAmount is accepted on the wire but never trusted.
type OrderInput struct {
	CustomerName  string           `json:"customerName"`
	FullName      string           `json:"fullName"`
	Email         string           `json:"email"`
	Phone         string           `json:"phone"`
	Address       string           `json:"address"`
	Items         []CartItem       `json:"items"`
	TotalAmount   *decimal.Decimal `json:"totalAmount,omitempty"`
	PaymentMethod PaymentMethod    `json:"paymentMethod"`
}

// Name returns the customer name, falling back to the legacy field.
func (in OrderInput) Name() string {
	if name := strings.TrimSpace(in.CustomerName); name != "" {
		return name
	}
	return strings.TrimSpace(in.FullName)
}

// ToOrder builds an unsaved order; id, status, timestamp and total are left
// to the order store.
func (in OrderInput) ToOrder() Order {
	method := in.PaymentMethod
	if method == "" {
		method = PaymentCashOnDelivery
	}
	items := make([]CartItem, len(in.Items))
	copy(items, in.Items)
	return Order{
		CustomerName:  in.Name(),
		Email:         strings.TrimSpace(in.Email),
		Phone:         strings.TrimSpace(in.Phone),
		Address:       strings.TrimSpace(in.Address),
		Items:         items,
		PaymentMethod: method,
	}
}

// Confirmation is what the storefront shows after a successful checkout.
type Confirmation struct {
	OrderNumber      string `json:"orderNumber"`
	NotificationSent bool   `json:"notificationSent"`
	Order            Order  `json:"orderDetails"`
}
