package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentCard
}

func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCard:
		return "card"
	default:
		return "cash"
	}
}

// NormalizeID is the single identity rule for products: ids are compared
// as strings with surrounding whitespace removed.
func NormalizeID(id string) string {
	return strings.TrimSpace(id)
}

func SameID(a, b string) bool {
	return NormalizeID(a) == NormalizeID(b)
}

// A CartEntry holds a copy of the product taken when it was first added.
type CartEntry struct {
	Product  Product
	Quantity int
}

func (e CartEntry) quantity() decimal.Decimal {
	return decimal.NewFromInt(int64(e.Quantity))
}

func (e CartEntry) Subtotal() decimal.Decimal {
	return e.Product.EffectivePrice().Mul(e.quantity())
}

func (e CartEntry) OriginalSubtotal() decimal.Decimal {
	return e.Product.Price.Mul(e.quantity())
}

func (e CartEntry) Savings() decimal.Decimal {
	return e.Product.UnitSavings().Mul(e.quantity())
}

type CartSummary struct {
	Items              []CartEntry
	TotalItems         int
	TotalCost          decimal.Decimal
	TotalSavings       decimal.Decimal
	OriginalTotal      decimal.Decimal
	UniqueProductCount int
	IsEmpty            bool
	HasDiscounts       bool
}
