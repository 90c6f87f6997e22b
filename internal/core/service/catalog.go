package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/clock"
)

var _ port.CatalogReader = (*Catalog)(nil)

// A Catalog owns the canonical product list. The list is replaced as a
// whole on every fetch, so slices handed out earlier stay valid.
type Catalog struct {
	fetcher port.ProductsFetcher
	clock   clock.Clock

	mu        sync.RWMutex
	products  []domain.Product
	version   uint64
	lastFetch time.Time
	err       error

	statsMu      sync.Mutex
	statsVersion uint64
	stats        *domain.CatalogStatistics
}

func NewCatalog(fetcher port.ProductsFetcher, clk clock.Clock) *Catalog {
	if clk == nil {
		clk = clock.Real()
	}
	return &Catalog{fetcher: fetcher, clock: clk}
}

// Refetch loads the catalog from the remote API. On failure the catalog
// falls back to an empty list and the error is kept for Err.
func (c *Catalog) Refetch(ctx context.Context) error {
	const op = "Catalog.Refetch"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	raws, err := c.fetcher.FetchProducts(ctx)
	if err != nil {
		log.Error("failed to fetch products", "err", err)
		c.replace(nil, err)
		return fmt.Errorf("%s: %w", op, err)
	}

	products := Normalize(raws)
	c.replace(products, nil)
	log.Info("products loaded", "nProducts", len(products))
	return nil
}

// Replace installs an already fetched set of raw records.
func (c *Catalog) Replace(raws []domain.RawProduct) {
	c.replace(Normalize(raws), nil)
}

func (c *Catalog) replace(products []domain.Product, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.products = products
	c.err = err
	c.version++
	if err == nil {
		c.lastFetch = c.clock.Now()
	}
}

func (c *Catalog) Products() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.products)
}

func (c *Catalog) snapshot() ([]domain.Product, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.products, c.version
}

func (c *Catalog) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// LastFetch is the time of the last successful load.
func (c *Catalog) LastFetch() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastFetch
}

func (c *Catalog) FindByID(id string) (domain.Product, bool) {
	ps, _ := c.snapshot()
	for _, p := range ps {
		if domain.SameID(p.ID, id) {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (c *Catalog) Categories() []string {
	ps, _ := c.snapshot()
	return Categories(ps)
}

func (c *Catalog) Subcategories(category string) []string {
	ps, _ := c.snapshot()
	return Subcategories(ps, category)
}

func (c *Catalog) CategoriesWithCounts() []domain.CategoryCount {
	ps, _ := c.snapshot()
	return CategoriesWithCounts(ps)
}

// Stats returns the catalog statistics, computed once per loaded list.
func (c *Catalog) Stats() domain.CatalogStatistics {
	ps, version := c.snapshot()

	c.statsMu.Lock()
	defer c.statsMu.Unlock()

	if c.stats == nil || c.statsVersion != version {
		s := ComputeStatistics(ps)
		c.stats = &s
		c.statsVersion = version
	}
	return *c.stats
}
