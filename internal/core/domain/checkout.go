package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CheckoutState int

const (
	CheckoutReviewing CheckoutState = iota
	CheckoutProcessing
	CheckoutCompleted
)

func (s CheckoutState) String() string {
	switch s {
	case CheckoutProcessing:
		return "processing"
	case CheckoutCompleted:
		return "completed"
	default:
		return "reviewing"
	}
}

// A CheckoutSnapshot is the cart as it was when checkout started.
type CheckoutSnapshot struct {
	Items         []CartEntry
	TotalItems    int
	TotalCost     decimal.Decimal
	TotalSavings  decimal.Decimal
	PaymentMethod PaymentMethod
}

type Order struct {
	EventID       string
	Number        string
	Items         []CartEntry
	TotalItems    int
	TotalCost     decimal.Decimal
	TotalSavings  decimal.Decimal
	PaymentMethod PaymentMethod
	CompletedAt   time.Time
}
