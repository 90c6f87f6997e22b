package service

import (
	"encoding/json"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Field names of the remote spreadsheet records.
const (
	rawID           = "ID_Producto"
	rawName         = "nombre"
	rawPrice        = "precio"
	rawCategory     = "categoria"
	rawSubcategory  = "subcategoria"
	rawImage        = "imagen"
	rawOutOfStock   = "agotado"
	rawBestSeller   = "masVendidos"
	rawHouseSpecial = "delaCasa"
	rawOnOffer      = "enOferta"
	rawRecommended  = "recomendados"
	rawRating       = "rating"
	rawDiscount     = "descuento"
	rawQuantity     = "cantidad"
	rawTax          = "itebis"
	rawInCart       = "carrito"
	rawAllowExtras  = "agregarediccion"
)

// Normalize maps raw records to products, applying defaults to malformed
// fields. Records without an id or a name are dropped. Input order is kept.
func Normalize(raws []domain.RawProduct) []domain.Product {
	const op = "service.Normalize"
	log := slog.With("op", op)

	products := make([]domain.Product, 0, len(raws))
	for i, raw := range raws {
		p := normalizeOne(raw)
		if reason := invalidReason(p); reason != "" {
			log.Debug("dropped product record", "index", i, "reason", reason)
			continue
		}
		products = append(products, p)
	}

	if dropped := len(raws) - len(products); dropped > 0 {
		log.Info("normalized products", "kept", len(products), "dropped", dropped)
	}
	return products
}

func invalidReason(p domain.Product) string {
	switch {
	case p.ID == "":
		return "missing id"
	case p.Name == "":
		return "missing name"
	default:
		return ""
	}
}

func normalizeOne(raw domain.RawProduct) domain.Product {
	category := toString(raw[rawCategory])
	subcategory := toString(raw[rawSubcategory])
	outOfStock := toFlag(raw[rawOutOfStock])

	image := toString(raw[rawImage])
	if image == "" {
		image = domain.PlaceholderImageURL
	}

	return domain.Product{
		ID:              domain.NormalizeID(toString(raw[rawID])),
		Name:            toString(raw[rawName]),
		Description:     describe(category, subcategory),
		Price:           toAmount(raw[rawPrice]),
		Category:        category,
		Subcategory:     subcategory,
		ImageURL:        image,
		OutOfStock:      outOfStock,
		Available:       !outOfStock,
		BestSeller:      toFlag(raw[rawBestSeller]),
		HouseSpecial:    toFlag(raw[rawHouseSpecial]),
		OnOffer:         toFlag(raw[rawOnOffer]),
		Recommended:     toFlag(raw[rawRecommended]),
		Rating:          toRating(raw[rawRating]),
		DiscountPercent: toAmount(raw[rawDiscount]),
		QuantityLabel:   toString(raw[rawQuantity]),
		TaxLabel:        toString(raw[rawTax]),
		InCart:          toFlag(raw[rawInCart]),
		AllowExtras:     toFlag(raw[rawAllowExtras]),
	}
}

func describe(category, subcategory string) string {
	switch {
	case subcategory != "":
		return category + " - " + subcategory
	case category != "":
		return category
	default:
		return domain.DefaultDescription
	}
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case json.Number:
		return strings.TrimSpace(x.String())
	default:
		return strings.TrimSpace(cast.ToString(v))
	}
}

// toFlag follows sheet truthiness: any non-empty text marks the flag,
// except the literals "false" and "0".
func toFlag(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "", "false", "0":
			return false
		}
		return true
	default:
		f, err := cast.ToFloat64E(x)
		if err != nil {
			return true
		}
		return f != 0 && !math.IsNaN(f)
	}
}

// toAmount parses a non-negative decimal, falling back to zero.
func toAmount(v any) decimal.Decimal {
	var d decimal.Decimal
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return decimal.Zero
		}
		d = parsed
	case json.Number:
		parsed, err := decimal.NewFromString(x.String())
		if err != nil {
			return decimal.Zero
		}
		d = parsed
	default:
		f, err := cast.ToFloat64E(x)
		if err != nil {
			return decimal.Zero
		}
		d = decimal.NewFromFloat(f)
	}

	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// toRating reads the leading decimal integer of v. Fractions truncate.
func toRating(v any) int {
	var n int
	switch x := v.(type) {
	case nil:
		return 0
	case string:
		n = leadingInt(x)
	default:
		f, err := cast.ToFloat64E(x)
		if err != nil || math.IsNaN(f) {
			return 0
		}
		n = int(f)
	}
	return max(n, 0)
}

func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
