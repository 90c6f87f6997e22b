package service

import (
	"math"
	"slices"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ComputeStatistics aggregates ps. Averages are zero for an empty catalog.
func ComputeStatistics(ps []domain.Product) domain.CatalogStatistics {
	s := domain.CatalogStatistics{
		Total:         len(ps),
		Categories:    len(Categories(ps)),
		Subcategories: len(Subcategories(ps, "")),
	}

	ratingSum := 0
	priceSum := decimal.Zero
	for _, p := range ps {
		if p.Available {
			s.Available++
		}
		if p.OutOfStock {
			s.OutOfStock++
		}
		if p.OnOffer {
			s.OnOffer++
		}
		if p.Recommended {
			s.Recommended++
		}
		if p.BestSeller {
			s.BestSellers++
		}
		if p.HouseSpecial {
			s.HouseSpecials++
		}
		ratingSum += p.Rating
		priceSum = priceSum.Add(p.Price)
	}

	if s.Total == 0 {
		return s
	}

	avgRating := float64(ratingSum) / float64(s.Total)
	s.AvgRating = math.Round(avgRating*10) / 10
	s.AvgPrice = priceSum.Div(decimal.NewFromInt(int64(s.Total))).Round(2).InexactFloat64()
	return s
}

// Categories returns the sorted distinct non-blank categories.
func Categories(ps []domain.Product) []string {
	return distinct(ps, func(p domain.Product) string { return p.Category })
}

// Subcategories returns the sorted distinct non-blank subcategories, limited
// to category when it is not empty.
func Subcategories(ps []domain.Product, category string) []string {
	if category != "" {
		ps = filter(ps, func(p domain.Product) bool {
			return strings.EqualFold(p.Category, category)
		})
	}
	return distinct(ps, func(p domain.Product) string { return p.Subcategory })
}

func distinct(ps []domain.Product, field func(domain.Product) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range ps {
		v := strings.TrimSpace(field(p))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// CategoriesWithCounts counts products per category in first-seen order.
func CategoriesWithCounts(ps []domain.Product) []domain.CategoryCount {
	index := make(map[string]int)
	var out []domain.CategoryCount
	for _, p := range ps {
		if p.Category == "" {
			continue
		}
		i, ok := index[p.Category]
		if !ok {
			i = len(out)
			index[p.Category] = i
			out = append(out, domain.CategoryCount{Name: p.Category})
		}
		out[i].Count++
		if p.Available {
			out[i].Available++
		}
	}
	return out
}

// Featured keeps recommended, best-selling and house-special products.
func Featured(ps []domain.Product) []domain.Product {
	return filter(ps, isFeatured)
}

// Offers keeps products on offer or carrying a discount.
func Offers(ps []domain.Product) []domain.Product {
	return filter(ps, isOffer)
}
