package port

import (
	"context"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
)

type closer interface {
	Close()
}

// ProductsFetcher retrieves the raw catalog from the remote API.
type ProductsFetcher interface {
	FetchProducts(context.Context) ([]domain.RawProduct, error)
}

// RecentSearchesStorage persists the recent search list. Implementations
// are best-effort.
type RecentSearchesStorage interface {
	LoadRecent(context.Context) ([]string, error)
	SaveRecent(context.Context, []string) error
	closer
}

type OrdersProducer interface {
	ProduceOrder(context.Context, domain.Order) error
	closer
}

type SearchEventsEmitter interface {
	EmitSearch(context.Context, domain.SearchEvent) error
	closer
}

// ProductsSource is a read view over the current catalog.
type ProductsSource interface {
	Products() []domain.Product
}

type CatalogReader interface {
	ProductsSource
	Refetch(context.Context) error
	Err() error
	LastFetch() time.Time
	FindByID(id string) (domain.Product, bool)
	Categories() []string
	Subcategories(category string) []string
	CategoriesWithCounts() []domain.CategoryCount
	Stats() domain.CatalogStatistics
}

type Searcher interface {
	SetTerm(term string)
	Clear()
	Await(context.Context) (domain.SearchResult, error)
	Results() domain.SearchResult
	Recent() []string
}

type CartManager interface {
	AddToCart(p domain.Product, quantity int)
	RemoveItem(productID string, confirmed bool) bool
	UpdateQuantity(productID string, quantity int)
	Clear(confirmed bool) bool
	SetPaymentMethod(domain.PaymentMethod) error
	PaymentMethod() domain.PaymentMethod
	Summary() domain.CartSummary
}
