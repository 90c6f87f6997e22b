package console

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fetcherFunc func(context.Context) ([]domain.RawProduct, error)

func (f fetcherFunc) FetchProducts(ctx context.Context) ([]domain.RawProduct, error) {
	return f(ctx)
}

func rawProducts() []domain.RawProduct {
	return []domain.RawProduct{
		{"ID_Producto": "1", "nombre": "Arepa", "precio": 50.0, "categoria": "Comida", "masVendidos": true},
		{"ID_Producto": "2", "nombre": "Camisa", "precio": 100.0, "categoria": "Ropa", "subcategoria": "Shirt", "descuento": 20.0},
		{"ID_Producto": "3", "nombre": "Batida", "precio": 80.0, "categoria": "Bebidas", "agotado": true},
	}
}

type harness struct {
	cart *service.Cart
	out  *bytes.Buffer
}

func run(t *testing.T, fetch fetcherFunc, input ...string) harness {
	t.Helper()

	catalog := service.NewCatalog(fetch, nil)
	require.NoError(t, catalog.Refetch(t.Context()))

	search := service.NewSearch(catalog, service.SearchDebounceOpt(time.Millisecond))
	t.Cleanup(search.Close)

	cart := service.NewCart()
	checkout := service.NewCheckout(cart, service.CheckoutDelayOpt(time.Millisecond))

	out := new(bytes.Buffer)
	sh := NewShell(Deps{
		Catalog:  catalog,
		Search:   search,
		Cart:     cart,
		Checkout: checkout,
		Currency: "RD$",
	}, strings.NewReader(strings.Join(input, "\n")+"\n"), out)

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()
	require.NoError(t, sh.Run(ctx))

	return harness{cart: cart, out: out}
}

func okFetcher(context.Context) ([]domain.RawProduct, error) {
	return rawProducts(), nil
}

func TestShellList(t *testing.T) {
	t.Run("SortedByPrice", func(t *testing.T) {
		h := run(t, okFetcher, "sort price-desc", "list")
		out := h.out.String()

		camisa := strings.Index(out, "Camisa")
		batida := strings.Index(out, "Batida")
		arepa := strings.Index(out, "Arepa")
		require.True(t, camisa >= 0 && batida >= 0 && arepa >= 0, out)
		assert.Less(t, camisa, batida)
		assert.Less(t, batida, arepa)
		assert.Contains(t, out, "RD$80.00 (was RD$100.00)")
		assert.Contains(t, out, "[out of stock]")
	})

	t.Run("FilterAndCategory", func(t *testing.T) {
		h := run(t, okFetcher, "filter available", "category comida", "list")
		out := h.out.String()
		assert.Contains(t, out, "Arepa")
		assert.NotContains(t, out, "Camisa")
	})

	t.Run("FetchFailure", func(t *testing.T) {
		calls := 0
		fetch := func(context.Context) ([]domain.RawProduct, error) {
			calls++
			if calls == 1 {
				return rawProducts(), nil
			}
			return nil, &domain.FetchError{Reason: "HTTP 503"}
		}
		h := run(t, fetch, "refresh", "list")
		out := h.out.String()
		assert.Contains(t, out, "error: Could not load products: HTTP 503")
		assert.Contains(t, out, "Type \"refresh\" to retry.")
	})
}

func TestShellSearch(t *testing.T) {
	t.Run("Results", func(t *testing.T) {
		h := run(t, okFetcher, "search shirt", "recent")
		out := h.out.String()
		assert.Contains(t, out, `1 results for "shirt":`)
		assert.Contains(t, out, "Camisa")
		assert.Contains(t, out, "1. shirt")
	})

	t.Run("Suggestion", func(t *testing.T) {
		h := run(t, okFetcher, "search arepaa")
		out := h.out.String()
		assert.Contains(t, out, `No results for "arepaa".`)
		assert.Contains(t, out, `Did you mean "Arepa"?`)
	})

	t.Run("Clear", func(t *testing.T) {
		h := run(t, okFetcher, "search")
		assert.Contains(t, h.out.String(), "Search cleared.")
	})

	t.Run("ResultsPassThroughFilter", func(t *testing.T) {
		h := run(t, okFetcher, "filter available", "sort price-desc", "search a")
		out := h.out.String()

		assert.Contains(t, out, `2 results for "a":`)
		assert.NotContains(t, out, "Batida")
		camisa := strings.Index(out, "Camisa")
		arepa := strings.Index(out, "Arepa")
		require.True(t, camisa >= 0 && arepa >= 0, out)
		assert.Less(t, camisa, arepa)
	})

	t.Run("FilteredAway", func(t *testing.T) {
		h := run(t, okFetcher, "category ropa", "search batida")
		out := h.out.String()
		assert.Contains(t, out, `No results for "batida".`)
		assert.NotContains(t, out, "Did you mean")
	})

	t.Run("ListKeepsSearch", func(t *testing.T) {
		h := run(t, okFetcher, "search shirt", "list")
		out := h.out.String()
		assert.Equal(t, 2, strings.Count(out, "Camisa"), out)
		assert.NotContains(t, out, "Arepa")

		h = run(t, okFetcher, "search shirt", "search", "list")
		out = h.out.String()
		assert.Contains(t, out, "Arepa")
		assert.Contains(t, out, "Batida")
	})
}

func TestShellCatalogViews(t *testing.T) {
	t.Run("Featured", func(t *testing.T) {
		h := run(t, okFetcher, "filter featured", "list")
		out := h.out.String()
		assert.Contains(t, out, "Arepa")
		assert.NotContains(t, out, "Camisa")
	})

	t.Run("Subcategories", func(t *testing.T) {
		h := run(t, okFetcher, "subcategories ropa", "subcategories comida", "subcategory shirt", "list")
		out := h.out.String()
		assert.Contains(t, out, "Shirt\n")
		assert.Contains(t, out, "No subcategories.")
		assert.Contains(t, out, "Camisa")
		assert.NotContains(t, out, "Arepa")
	})

	t.Run("LastUpdate", func(t *testing.T) {
		h := run(t, okFetcher, "stats")
		assert.Regexp(t, `Last update: \d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}`, h.out.String())
	})
}

func TestShellCart(t *testing.T) {
	t.Run("AddMergesAndSummarizes", func(t *testing.T) {
		h := run(t, okFetcher, "add 2 2", "add 1", "add 1 2", "cart")
		out := h.out.String()

		assert.Equal(t, 3, h.cart.Summary().Items[1].Quantity)
		assert.Contains(t, out, "Items: 5 (2 products)")
		assert.Contains(t, out, "Savings: -RD$40.00")
		assert.Contains(t, out, "Total: RD$310.00")
	})

	t.Run("OutOfStock", func(t *testing.T) {
		h := run(t, okFetcher, "add 3")
		assert.Contains(t, h.out.String(), "error: Batida is out of stock")
		assert.True(t, h.cart.Summary().IsEmpty)
	})

	t.Run("RemoveDeclined", func(t *testing.T) {
		h := run(t, okFetcher, "add 1", "rm 1", "n")
		assert.Len(t, h.cart.Summary().Items, 1)
	})

	t.Run("RemoveConfirmed", func(t *testing.T) {
		h := run(t, okFetcher, "add 1", "rm 1", "y")
		assert.True(t, h.cart.Summary().IsEmpty)
		assert.Contains(t, h.out.String(), "Removed Arepa.")
	})

	t.Run("QuantityZeroRemoves", func(t *testing.T) {
		h := run(t, okFetcher, "add 1", "qty 1 0")
		assert.True(t, h.cart.Summary().IsEmpty)
		assert.Contains(t, h.out.String(), "The cart is empty.")
	})

	t.Run("ClearConfirmed", func(t *testing.T) {
		h := run(t, okFetcher, "add 1", "add 2", "clear", "yes")
		assert.True(t, h.cart.Summary().IsEmpty)
	})

	t.Run("Payment", func(t *testing.T) {
		h := run(t, okFetcher, "pay card", "pay bitcoin")
		assert.Equal(t, domain.PaymentCard, h.cart.PaymentMethod())
		assert.Contains(t, h.out.String(), "Unknown payment method")
	})
}

func TestShellCheckout(t *testing.T) {
	t.Run("EmptyCart", func(t *testing.T) {
		h := run(t, okFetcher, "checkout")
		assert.Contains(t, h.out.String(), "error: The cart is empty")
	})

	t.Run("Declined", func(t *testing.T) {
		h := run(t, okFetcher, "add 1", "checkout", "n")
		assert.Contains(t, h.out.String(), "Purchase cancelled.")
		assert.False(t, h.cart.Summary().IsEmpty)
	})

	t.Run("Completed", func(t *testing.T) {
		h := run(t, okFetcher, "add 1 2", "pay card", "checkout", "y")
		out := h.out.String()
		assert.Contains(t, out, "Confirm purchase of RD$100.00 paying by card?")
		assert.Regexp(t, `Order DS\d{6}[0-9A-Z]{4} completed\. Total paid: RD\$100\.00`, out)
		assert.True(t, h.cart.Summary().IsEmpty)
	})
}

func TestShellMisc(t *testing.T) {
	h := run(t, okFetcher, "bogus", "stats", "categories", "show 2", "quit", "list")
	out := h.out.String()

	assert.Contains(t, out, `unknown command "bogus"`)
	assert.Contains(t, out, "Products: 3 (2 available, 1 out of stock)")
	assert.Contains(t, out, "Comida")
	assert.Contains(t, out, "You save: RD$20.00")
	assert.NotContains(t, out, "No products found.")
}
