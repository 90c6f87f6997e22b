package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/clock"
)

const (
	DefaultSettlementDelay = 2 * time.Second
	publishOrderTimeout    = 5 * time.Second
	orderNumberPrefix      = "DS"
	orderNumberAlphabet    = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

type CheckoutOpt func(*Checkout)

func CheckoutClockOpt(clk clock.Clock) CheckoutOpt {
	return func(c *Checkout) {
		if clk != nil {
			c.clock = clk
		}
	}
}

func CheckoutDelayOpt(d time.Duration) CheckoutOpt {
	return func(c *Checkout) {
		if d >= 0 {
			c.delay = d
		}
	}
}

func CheckoutProducerOpt(p port.OrdersProducer) CheckoutOpt {
	return func(c *Checkout) { c.producer = p }
}

// Checkout starts checkout flows over a cart. Settlement is simulated.
type Checkout struct {
	cart     *Cart
	clock    clock.Clock
	delay    time.Duration
	producer port.OrdersProducer
}

func NewCheckout(cart *Cart, opts ...CheckoutOpt) *Checkout {
	c := &Checkout{
		cart:  cart,
		clock: clock.Real(),
		delay: DefaultSettlementDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Begin captures the cart and returns a flow in the reviewing state.
// An empty cart yields ErrEmptyCart.
func (c *Checkout) Begin() (*CheckoutFlow, error) {
	const op = "Checkout.Begin"

	summary := c.cart.Summary()
	if summary.IsEmpty {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrEmptyCart)
	}

	return &CheckoutFlow{
		checkout: c,
		snapshot: domain.CheckoutSnapshot{
			Items:         summary.Items,
			TotalItems:    summary.TotalItems,
			TotalCost:     summary.TotalCost,
			TotalSavings:  summary.TotalSavings,
			PaymentMethod: c.cart.PaymentMethod(),
		},
		state: domain.CheckoutReviewing,
		done:  make(chan struct{}),
	}, nil
}

// A CheckoutFlow moves from reviewing to processing to completed. Once
// processing starts it cannot be cancelled: the cart is cleared when the
// settlement delay elapses even if nobody waits for it.
type CheckoutFlow struct {
	checkout *Checkout
	snapshot domain.CheckoutSnapshot

	mu    sync.Mutex
	state domain.CheckoutState
	order domain.Order
	done  chan struct{}
}

func (f *CheckoutFlow) Snapshot() domain.CheckoutSnapshot {
	return f.snapshot
}

func (f *CheckoutFlow) State() domain.CheckoutState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Prompt is the question the user answers before ConfirmPurchase.
func (f *CheckoutFlow) Prompt(currency string) string {
	return fmt.Sprintf(
		"Confirm purchase of %s paying by %s?",
		domain.FormatPrice(f.snapshot.TotalCost, currency),
		f.snapshot.PaymentMethod.Label(),
	)
}

// ConfirmPurchase takes the user's answer. A declined confirmation leaves
// the flow in reviewing.
func (f *CheckoutFlow) ConfirmPurchase(confirmed bool) error {
	const op = "CheckoutFlow.ConfirmPurchase"
	log := slog.With("op", op)

	if !confirmed {
		log.Debug("purchase declined")
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != domain.CheckoutReviewing {
		return fmt.Errorf(
			"%s: %w: %s", op, domain.ErrInvalidCheckoutState, f.state,
		)
	}
	f.state = domain.CheckoutProcessing
	f.checkout.clock.AfterFunc(f.checkout.delay, f.settle)

	log.Info("processing payment",
		"totalCost", f.snapshot.TotalCost.StringFixed(2),
		"paymentMethod", f.snapshot.PaymentMethod,
	)
	return nil
}

// Wait blocks until the flow completes.
func (f *CheckoutFlow) Wait(ctx context.Context) (domain.Order, error) {
	const op = "CheckoutFlow.Wait"

	select {
	case <-ctx.Done():
		return domain.Order{}, fmt.Errorf("%s: %w", op, ctx.Err())
	case <-f.done:
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.order, nil
}

// Order returns the completed order.
func (f *CheckoutFlow) Order() (domain.Order, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.order, f.state == domain.CheckoutCompleted
}

func (f *CheckoutFlow) settle() {
	const op = "CheckoutFlow.settle"
	log := slog.With("op", op)

	now := f.checkout.clock.Now()
	f.checkout.cart.ClearCart()

	f.mu.Lock()
	f.order = domain.Order{
		EventID:       uuid.NewString(),
		Number:        OrderNumber(now),
		Items:         f.snapshot.Items,
		TotalItems:    f.snapshot.TotalItems,
		TotalCost:     f.snapshot.TotalCost,
		TotalSavings:  f.snapshot.TotalSavings,
		PaymentMethod: f.snapshot.PaymentMethod,
		CompletedAt:   now,
	}
	f.state = domain.CheckoutCompleted
	order := f.order
	close(f.done)
	f.mu.Unlock()

	log.Info("order completed", "order", order.Number)
	f.publish(order)
}

func (f *CheckoutFlow) publish(order domain.Order) {
	const op = "CheckoutFlow.publish"
	log := slog.With("op", op)

	producer := f.checkout.producer
	if producer == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishOrderTimeout)
	defer cancel()

	if err := producer.ProduceOrder(ctx, order); err != nil {
		log.Warn("failed to publish order", "order", order.Number, "err", err)
	}
}

// OrderNumber builds a display identifier from the last six digits of the
// epoch milliseconds and four random base-36 characters.
func OrderNumber(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}

	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = orderNumberAlphabet[rand.IntN(len(orderNumberAlphabet))]
	}
	return orderNumberPrefix + ms + string(suffix)
}
