package kafka

import (
	"context"
	"log/slog"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/retry"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

const (
	defaultProduceAttempts = 3
	produceBackoff         = 200 * time.Millisecond
	eventIDHeader          = "event_id"
)

var _ port.OrdersProducer = (*OrdersProducer)(nil)

// An OrdersProducer publishes completed orders keyed by order number.
type OrdersProducer struct {
	cl       ProducerClient
	encoder  Encoder
	retry    retry.RetryConfig
	currency string
	opPrefix string
}

func NewOrdersProducer(opts ...ProducerOpt) (OrdersProducer, error) {
	const op = "NewOrdersProducer"

	options := producerOpts{
		attempts: defaultProduceAttempts,
		currency: domain.DefaultCurrency,
	}
	if err := options.apply(opts...); err != nil {
		return OrdersProducer{}, opErr(err, op)
	}

	return OrdersProducer{
		cl:      options.cl,
		encoder: options.encoder,
		retry: retry.RetryConfig{
			MaxAttempts: options.attempts,
			Backoff:     retry.ExponentialBackoff(produceBackoff),
			ShouldRetry: kerr.IsRetriable,
		},
		currency: options.currency,
		opPrefix: "OrdersProducer",
	}, nil
}

func (p OrdersProducer) ProduceOrder(ctx context.Context, o domain.Order) error {
	const op = "ProduceOrder"
	log := slog.With("op", makeOp(p.opPrefix, op))

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	r, err := p.createRecord(o)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	err = retry.Do(ctx, p.retry, func() error {
		return p.cl.ProduceSync(ctx, r).FirstErr()
	})
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	log.Debug("order produced", "order", o.Number, "partition", r.Partition)
	return nil
}

func (p OrdersProducer) createRecord(o domain.Order) (*kgo.Record, error) {
	const op = "createRecord"

	s := orderToSchemaV1(o, p.currency)
	b, err := p.encoder.Encode(s)
	if err != nil {
		return nil, opErr(err, p.opPrefix, op)
	}
	return &kgo.Record{
		Key:   []byte(s.Number),
		Value: b,
		Headers: []kgo.RecordHeader{
			{Key: eventIDHeader, Value: []byte(s.EventID)},
		},
	}, nil
}

func (p OrdersProducer) Close() {
	const op = "Close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}
