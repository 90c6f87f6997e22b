package service

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/shopspring/decimal"
)

var _ port.CartManager = (*Cart)(nil)

// A Cart holds product snapshots with quantities, unique by product id.
// Catalog refreshes never touch entries already in the cart.
type Cart struct {
	mu      sync.Mutex
	entries []domain.CartEntry
	payment domain.PaymentMethod
}

func NewCart() *Cart {
	return &Cart{payment: domain.PaymentCash}
}

// AddToCart merges quantity into the entry for p, creating it if needed.
// Quantities below one count as one.
func (c *Cart) AddToCart(p domain.Product, quantity int) {
	const op = "Cart.AddToCart"
	log := slog.With("op", op)

	id := domain.NormalizeID(p.ID)
	if id == "" {
		log.Warn("invalid product provided", "name", p.Name)
		return
	}
	p.ID = id
	quantity = max(quantity, 1)

	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(id); i >= 0 {
		c.entries[i].Quantity += quantity
		return
	}
	c.entries = append(c.entries, domain.CartEntry{Product: p, Quantity: quantity})
}

// RemoveFromCart deletes the entry for productID if present.
func (c *Cart) RemoveFromCart(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(productID)
}

// RemoveItem removes the entry only when the user confirmed. It reports
// whether an entry was removed.
func (c *Cart) RemoveItem(productID string, confirmed bool) bool {
	if !confirmed {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remove(productID)
}

// UpdateQuantity sets the quantity of an entry. Zero or less removes it.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		c.remove(productID)
		return
	}
	if i := c.indexOf(productID); i >= 0 {
		c.entries[i].Quantity = quantity
	}
}

func (c *Cart) ClearCart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
}

// Clear empties the cart when the user confirmed and reports whether it did.
func (c *Cart) Clear(confirmed bool) bool {
	if !confirmed {
		return false
	}
	c.ClearCart()
	return true
}

func (c *Cart) SetPaymentMethod(m domain.PaymentMethod) error {
	const op = "Cart.SetPaymentMethod"

	if !m.Valid() {
		return fmt.Errorf("%s: %w: %q", op, domain.ErrInvalidPaymentMethod, m)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payment = m
	return nil
}

func (c *Cart) PaymentMethod() domain.PaymentMethod {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.payment
}

func (c *Cart) Items() []domain.CartEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.entries)
}

func (c *Cart) IsInCart(productID string) bool {
	return c.ProductQuantity(productID) > 0
}

func (c *Cart) ProductQuantity(productID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(productID); i >= 0 {
		return c.entries[i].Quantity
	}
	return 0
}

func (c *Cart) TotalCost() decimal.Decimal {
	return totalCost(c.Items())
}

func (c *Cart) TotalItems() int {
	return totalItems(c.Items())
}

func (c *Cart) TotalSavings() decimal.Decimal {
	return totalSavings(c.Items())
}

func (c *Cart) Summary() domain.CartSummary {
	items := c.Items()
	savings := totalSavings(items)

	original := decimal.Zero
	for _, e := range items {
		original = original.Add(e.OriginalSubtotal())
	}

	return domain.CartSummary{
		Items:              items,
		TotalItems:         totalItems(items),
		TotalCost:          totalCost(items),
		TotalSavings:       savings,
		OriginalTotal:      original,
		UniqueProductCount: len(items),
		IsEmpty:            len(items) == 0,
		HasDiscounts:       savings.IsPositive(),
	}
}

func (c *Cart) indexOf(productID string) int {
	return slices.IndexFunc(c.entries, func(e domain.CartEntry) bool {
		return domain.SameID(e.Product.ID, productID)
	})
}

func (c *Cart) remove(productID string) bool {
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}
	c.entries = slices.Delete(c.entries, i, i+1)
	return true
}

func totalCost(items []domain.CartEntry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range items {
		sum = sum.Add(e.Subtotal())
	}
	return sum
}

func totalItems(items []domain.CartEntry) int {
	n := 0
	for _, e := range items {
		n += e.Quantity
	}
	return n
}

func totalSavings(items []domain.CartEntry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range items {
		sum = sum.Add(e.Savings())
	}
	return sum
}
