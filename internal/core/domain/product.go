package domain

import "github.com/shopspring/decimal"

const (
	PlaceholderImageURL = "https://via.placeholder.com/300x200?text=Sin+Imagen"
	DefaultDescription  = "Sin descripción"
	AllCategories       = "all"
	DefaultMinRating    = 4
	DefaultCurrency     = "RD$"
)

const percentDivisor = 100

// A RawProduct is one record of the remote catalog as decoded from JSON.
// Field values may be strings, numbers or booleans.
type RawProduct map[string]any

type Product struct {
	ID              string
	Name            string
	Description     string
	Price           decimal.Decimal
	Category        string
	Subcategory     string
	ImageURL        string
	OutOfStock      bool
	BestSeller      bool
	HouseSpecial    bool
	OnOffer         bool
	Recommended     bool
	Available       bool
	Rating          int
	DiscountPercent decimal.Decimal

	QuantityLabel string
	TaxLabel      string
	InCart        bool
	AllowExtras   bool
}

func (p Product) HasDiscount() bool {
	return p.DiscountPercent.IsPositive()
}

// EffectivePrice is the unit price after the discount.
func (p Product) EffectivePrice() decimal.Decimal {
	if !p.HasDiscount() {
		return p.Price
	}
	return p.Price.Sub(p.UnitSavings())
}

// UnitSavings is the amount the discount takes off one unit.
func (p Product) UnitSavings() decimal.Decimal {
	if !p.HasDiscount() {
		return decimal.Zero
	}
	return p.Price.Mul(p.DiscountPercent).Div(decimal.NewFromInt(percentDivisor))
}

type CategoryCount struct {
	Name      string
	Count     int
	Available int
}

type CatalogStatistics struct {
	Total         int
	Available     int
	OutOfStock    int
	OnOffer       int
	Recommended   int
	BestSellers   int
	HouseSpecials int
	Categories    int
	Subcategories int
	AvgRating     float64
	AvgPrice      float64
}

// FormatPrice renders an amount with two decimals after the currency symbol.
func FormatPrice(amount decimal.Decimal, currency string) string {
	return currency + amount.StringFixed(2)
}
