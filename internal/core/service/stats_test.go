package service

import (
	"testing"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeStatistics(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		s := ComputeStatistics(nil)
		assert.Equal(t, domain.CatalogStatistics{}, s)
	})

	t.Run("Fixture", func(t *testing.T) {
		s := ComputeStatistics(fixtureProducts())

		assert.Equal(t, 4, s.Total)
		assert.Equal(t, 3, s.Available)
		assert.Equal(t, 1, s.OutOfStock)
		assert.Equal(t, 1, s.OnOffer)
		assert.Equal(t, 1, s.Recommended)
		assert.Equal(t, 1, s.BestSellers)
		assert.Equal(t, 1, s.HouseSpecials)
		assert.Equal(t, 3, s.Categories)
		assert.Equal(t, 3, s.Subcategories)
		assert.InDelta(t, 3.0, s.AvgRating, 0.001)
		assert.InDelta(t, 112.5, s.AvgPrice, 0.001)
	})

	t.Run("RoundsAverages", func(t *testing.T) {
		ps := []domain.Product{
			{ID: "1", Name: "x", Rating: 5},
			{ID: "2", Name: "y", Rating: 4},
			{ID: "3", Name: "z", Rating: 4},
		}
		ps[0].Price = decimal.NewFromInt(10)
		s := ComputeStatistics(ps)
		assert.InDelta(t, 4.3, s.AvgRating, 0.001)
		assert.InDelta(t, 3.33, s.AvgPrice, 0.001)
	})
}

func TestCategories(t *testing.T) {
	ps := fixtureProducts()

	assert.Equal(t, []string{"Bebidas", "Comida", "ropa"}, Categories(ps))
	assert.Equal(t, []string{"Criolla", "Jugos", "Shirts"}, Subcategories(ps, ""))
	assert.Equal(t, []string{"Criolla"}, Subcategories(ps, "comida"))
	assert.Empty(t, Categories(nil))
}

func TestCategoriesWithCounts(t *testing.T) {
	got := CategoriesWithCounts(fixtureProducts())

	assert.Equal(t, []domain.CategoryCount{
		{Name: "Comida", Count: 2, Available: 2},
		{Name: "Bebidas", Count: 1, Available: 1},
		{Name: "ropa", Count: 1, Available: 0},
	}, got)
}

func TestFeaturedAndOffers(t *testing.T) {
	ps := fixtureProducts()

	assert.Equal(t, []string{"a", "d"}, ids(Featured(ps)))
	assert.Equal(t, []string{"b", "c"}, ids(Offers(ps)))
}
