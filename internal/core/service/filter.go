package service

import (
	"slices"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
)

// FilterByCategory keeps products whose category equals category, ignoring
// case. An empty category or "all" keeps everything.
func FilterByCategory(ps []domain.Product, category string) []domain.Product {
	return filterByField(ps, category, func(p domain.Product) string {
		return p.Category
	})
}

// FilterBySubcategory is FilterByCategory for the subcategory field.
func FilterBySubcategory(ps []domain.Product, subcategory string) []domain.Product {
	return filterByField(ps, subcategory, func(p domain.Product) string {
		return p.Subcategory
	})
}

func filterByField(
	ps []domain.Product, want string, field func(domain.Product) string,
) []domain.Product {
	if want == "" || want == domain.AllCategories {
		return ps
	}
	return filter(ps, func(p domain.Product) bool {
		return strings.EqualFold(field(p), want)
	})
}

type Predicate func(domain.Product) bool

type PredicateName string

const (
	PredicateAvailable     PredicateName = "available"
	PredicateOutOfStock    PredicateName = "outOfStock"
	PredicateBestSeller    PredicateName = "bestSeller"
	PredicateHouseSpecial  PredicateName = "houseSpecial"
	PredicateOnOffer       PredicateName = "onOffer"
	PredicateRecommended   PredicateName = "recommended"
	PredicateHasDiscount   PredicateName = "hasDiscount"
	PredicateRatingAtLeast PredicateName = "ratingAtLeast"
)

func RatingAtLeast(threshold int) Predicate {
	return func(p domain.Product) bool { return p.Rating >= threshold }
}

// PredicateFor resolves a named predicate. threshold is only read by
// ratingAtLeast and defaults to 4.
func PredicateFor(name PredicateName, threshold ...int) (Predicate, bool) {
	switch name {
	case PredicateAvailable:
		return func(p domain.Product) bool { return p.Available }, true
	case PredicateOutOfStock:
		return func(p domain.Product) bool { return p.OutOfStock }, true
	case PredicateBestSeller:
		return func(p domain.Product) bool { return p.BestSeller }, true
	case PredicateHouseSpecial:
		return func(p domain.Product) bool { return p.HouseSpecial }, true
	case PredicateOnOffer:
		return func(p domain.Product) bool { return p.OnOffer }, true
	case PredicateRecommended:
		return func(p domain.Product) bool { return p.Recommended }, true
	case PredicateHasDiscount:
		return func(p domain.Product) bool { return p.HasDiscount() }, true
	case PredicateRatingAtLeast:
		atLeast := domain.DefaultMinRating
		if len(threshold) > 0 {
			atLeast = threshold[0]
		}
		return RatingAtLeast(atLeast), true
	default:
		return nil, false
	}
}

// AdvancedFilter applies a named predicate. Unknown names keep everything.
func AdvancedFilter(
	ps []domain.Product, name PredicateName, threshold ...int,
) []domain.Product {
	pred, ok := PredicateFor(name, threshold...)
	if !ok {
		return ps
	}
	return filter(ps, pred)
}

func isFeatured(p domain.Product) bool {
	return p.Recommended || p.BestSeller || p.HouseSpecial
}

func isOffer(p domain.Product) bool {
	return p.OnOffer || p.HasDiscount()
}

// ListFilter names the quick filters offered on the product list.
type ListFilter string

const (
	ListAll           ListFilter = "all"
	ListAvailable     ListFilter = "available"
	ListFeatured      ListFilter = "featured"
	ListOffers        ListFilter = "offers"
	ListBestSellers   ListFilter = "bestsellers"
	ListRecommended   ListFilter = "recommended"
	ListHouseSpecials ListFilter = "house-specials"
	ListHighRated     ListFilter = "high-rated"
)

func ApplyListFilter(ps []domain.Product, f ListFilter) []domain.Product {
	switch f {
	case ListAvailable:
		return AdvancedFilter(ps, PredicateAvailable)
	case ListFeatured:
		return Featured(ps)
	case ListOffers:
		return Offers(ps)
	case ListBestSellers:
		return AdvancedFilter(ps, PredicateBestSeller)
	case ListRecommended:
		return AdvancedFilter(ps, PredicateRecommended)
	case ListHouseSpecials:
		return AdvancedFilter(ps, PredicateHouseSpecial)
	case ListHighRated:
		return AdvancedFilter(ps, PredicateRatingAtLeast, domain.DefaultMinRating)
	default:
		return ps
	}
}

// Pipeline runs the product list view: quick filter, then sort.
func Pipeline(ps []domain.Product, f ListFilter, key SortKey) []domain.Product {
	return Sort(ApplyListFilter(ps, f), key)
}

func filter(ps []domain.Product, keep Predicate) []domain.Product {
	out := make([]domain.Product, 0, len(ps))
	for _, p := range ps {
		if keep(p) {
			out = append(out, p)
		}
	}
	return slices.Clip(out)
}
