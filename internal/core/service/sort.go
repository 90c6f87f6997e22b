package service

import (
	"cmp"
	"slices"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
)

type SortKey string

const (
	SortName      SortKey = "name"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortCategory  SortKey = "category"
	SortRating    SortKey = "rating"
	SortPopular   SortKey = "popular"
	SortOffers    SortKey = "offers"
)

// Sort returns a stably sorted copy of ps. Unknown keys return the copy in
// input order.
func Sort(ps []domain.Product, key SortKey) []domain.Product {
	out := slices.Clone(ps)
	if cmpFn := comparator(key); cmpFn != nil {
		slices.SortStableFunc(out, cmpFn)
	}
	return out
}

func comparator(key SortKey) func(a, b domain.Product) int {
	switch key {
	case SortName:
		return byName
	case SortPriceAsc:
		return byPrice
	case SortPriceDesc:
		return func(a, b domain.Product) int { return byPrice(b, a) }
	case SortCategory:
		return func(a, b domain.Product) int {
			return strings.Compare(a.Category, b.Category)
		}
	case SortRating:
		return func(a, b domain.Product) int { return cmp.Compare(b.Rating, a.Rating) }
	case SortPopular:
		return func(a, b domain.Product) int {
			return cmp.Or(
				trueFirst(a.BestSeller, b.BestSeller),
				trueFirst(a.Recommended, b.Recommended),
				cmp.Compare(b.Rating, a.Rating),
				byName(a, b),
			)
		}
	case SortOffers:
		return func(a, b domain.Product) int {
			return cmp.Or(
				trueFirst(a.OnOffer, b.OnOffer),
				b.DiscountPercent.Cmp(a.DiscountPercent),
				byPrice(a, b),
			)
		}
	default:
		return nil
	}
}

func byName(a, b domain.Product) int {
	return strings.Compare(a.Name, b.Name)
}

func byPrice(a, b domain.Product) int {
	return a.Price.Cmp(b.Price)
}

func trueFirst(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}
