package service

import (
	"context"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockProductsFetcher struct {
	mock.Mock
}

func (m *MockProductsFetcher) FetchProducts(ctx context.Context) ([]domain.RawProduct, error) {
	args := m.Called(ctx)
	raws, _ := args.Get(0).([]domain.RawProduct)
	return raws, args.Error(1)
}

type MockRecentStorage struct {
	mock.Mock
}

func (m *MockRecentStorage) LoadRecent(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	terms, _ := args.Get(0).([]string)
	return terms, args.Error(1)
}

func (m *MockRecentStorage) SaveRecent(ctx context.Context, terms []string) error {
	return m.Called(ctx, terms).Error(0)
}

func (m *MockRecentStorage) Close() {}

type MockOrdersProducer struct {
	mock.Mock
}

func (m *MockOrdersProducer) ProduceOrder(ctx context.Context, o domain.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrdersProducer) Close() {}

type MockSearchEmitter struct {
	mock.Mock
}

func (m *MockSearchEmitter) EmitSearch(ctx context.Context, evt domain.SearchEvent) error {
	return m.Called(ctx, evt).Error(0)
}

func (m *MockSearchEmitter) Close() {}

type staticSource []domain.Product

func (s staticSource) Products() []domain.Product {
	return s
}

func product(id, name string, price int64) domain.Product {
	return domain.Product{
		ID:        id,
		Name:      name,
		Price:     decimal.NewFromInt(price),
		Available: true,
	}
}
