package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func rawFixture() []domain.RawProduct {
	return []domain.RawProduct{
		{"ID_Producto": "1", "nombre": "Arepa", "precio": 50.0, "categoria": "Comida"},
		{"ID_Producto": "2", "nombre": "Batida", "precio": 80.0, "categoria": "Bebidas", "subcategoria": "Frutas", "enOferta": true},
		{"ID_Producto": "", "nombre": "Ghost"},
	}
}

func TestCatalogRefetch(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		fetcher := new(MockProductsFetcher)
		fetcher.On("FetchProducts", mock.Anything).Return(rawFixture(), nil).Once()
		clk := clock.NewMock(start)

		c := NewCatalog(fetcher, clk)
		require.NoError(t, c.Refetch(t.Context()))

		assert.Len(t, c.Products(), 2)
		assert.NoError(t, c.Err())
		assert.Equal(t, start, c.LastFetch())
		fetcher.AssertExpectations(t)
	})

	t.Run("FailureFallsBackToEmpty", func(t *testing.T) {
		fetchErr := &domain.FetchError{Reason: "HTTP 500"}
		fetcher := new(MockProductsFetcher)
		fetcher.On("FetchProducts", mock.Anything).Return(rawFixture(), nil).Once()
		fetcher.On("FetchProducts", mock.Anything).Return(nil, fetchErr).Once()

		c := NewCatalog(fetcher, clock.NewMock(start))
		require.NoError(t, c.Refetch(t.Context()))
		require.Len(t, c.Products(), 2)

		err := c.Refetch(t.Context())
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrFetchProducts)
		assert.ErrorIs(t, c.Err(), domain.ErrFetchProducts)
		assert.Empty(t, c.Products())
		assert.Equal(t, start, c.LastFetch())
	})

	t.Run("SuccessClearsError", func(t *testing.T) {
		fetcher := new(MockProductsFetcher)
		fetcher.On("FetchProducts", mock.Anything).Return(nil, errors.New("boom")).Once()
		fetcher.On("FetchProducts", mock.Anything).Return(rawFixture(), nil).Once()

		c := NewCatalog(fetcher, nil)
		require.Error(t, c.Refetch(t.Context()))
		require.NoError(t, c.Refetch(t.Context()))
		assert.NoError(t, c.Err())
	})

	t.Run("CancelledContext", func(t *testing.T) {
		fetcher := new(MockProductsFetcher)
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		c := NewCatalog(fetcher, nil)
		err := c.Refetch(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		fetcher.AssertNotCalled(t, "FetchProducts", mock.Anything)
	})
}

func TestCatalogViews(t *testing.T) {
	c := NewCatalog(nil, nil)
	c.Replace(rawFixture())

	p, ok := c.FindByID(" 2 ")
	require.True(t, ok)
	assert.Equal(t, "Batida", p.Name)

	_, ok = c.FindByID("3")
	assert.False(t, ok)

	assert.Equal(t, []string{"Bebidas", "Comida"}, c.Categories())
	assert.Equal(t, []string{"Frutas"}, c.Subcategories("bebidas"))
	assert.Empty(t, c.Subcategories("Comida"))
	assert.Len(t, c.CategoriesWithCounts(), 2)
}

func TestCatalogProductsIsACopy(t *testing.T) {
	c := NewCatalog(nil, nil)
	c.Replace(rawFixture())

	ps := c.Products()
	ps[0].Name = "changed"
	assert.Equal(t, "Arepa", c.Products()[0].Name)
}

func TestCatalogStatsFollowReplace(t *testing.T) {
	c := NewCatalog(nil, nil)
	c.Replace(rawFixture())

	first := c.Stats()
	assert.Equal(t, 2, first.Total)
	assert.Equal(t, first, c.Stats())

	c.Replace(rawFixture()[:1])
	assert.Equal(t, 1, c.Stats().Total)
}
