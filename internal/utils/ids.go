package utils

import (
	"strings"

	"github.com/google/uuid"
)

const OrderIDPrefix = "ORD-"

// NewOrderID returns a human-readable order number: the ORD- prefix and 20
// upper-case hex characters of a random UUIDv4. The version and variant bits
// fall inside that prefix, which leaves about 74 random bits.
// Order stores are the only callers.
func NewOrderID() string {
	hex := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return OrderIDPrefix + hex[:20]
}

// NewContactID returns the identifier of a contact message.
func NewContactID() string {
	return uuid.NewString()
}
