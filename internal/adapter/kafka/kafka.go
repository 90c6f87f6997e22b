package kafka

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var (
	ErrTooFewOpts       = errors.New("too few options")
	ErrInvalidValueType = errors.New("invalid value type")
)

type ProducerOpt func(*producerOpts) error

type producerOpts struct {
	cl       ProducerClient
	encoder  Encoder
	attempts int
	currency string
}

func (po *producerOpts) apply(opts ...ProducerOpt) error {
	for _, opt := range opts {
		if err := opt(po); err != nil {
			return err
		}
	}
	if po.cl == nil || po.encoder == nil {
		return ErrTooFewOpts
	}
	return nil
}

// ProducerClientOpt connects to seedBrokers and pings them. tlsCfg may be
// nil for plaintext listeners.
func ProducerClientOpt(
	ctx context.Context, seedBrokers []string, topic string, tlsCfg *tls.Config,
) ProducerOpt {
	return func(opts *producerOpts) error {
		kOpts := []kgo.Opt{
			kgo.SeedBrokers(seedBrokers...),
			kgo.DefaultProduceTopicAlways(),
			kgo.DefaultProduceTopic(topic),
			kgo.RequiredAcks(kgo.AllISRAcks()),
			kgo.AllowAutoTopicCreation(),
		}
		if tlsCfg != nil {
			kOpts = append(kOpts, kgo.DialTLSConfig(tlsCfg))
		}

		cl, err := kgo.NewClient(kOpts...)
		if err != nil {
			return err
		}

		if err := cl.Ping(ctx); err != nil {
			cl.Close()
			return err
		}
		opts.cl = cl
		return nil
	}
}

// ProducerWithClientOpt sets an already built client.
func ProducerWithClientOpt(cl ProducerClient) ProducerOpt {
	return func(opts *producerOpts) error {
		if cl == nil {
			return errors.New("client is nil")
		}
		opts.cl = cl
		return nil
	}
}

func ProducerEncoderOpt(encoder Encoder) ProducerOpt {
	return func(opts *producerOpts) error {
		if encoder == nil {
			return errors.New("encoder is nil")
		}
		opts.encoder = encoder
		return nil
	}
}

// ProducerAttemptsOpt sets how many times a retriable produce error is
// retried before giving up.
func ProducerAttemptsOpt(n int) ProducerOpt {
	return func(opts *producerOpts) error {
		if n < 1 {
			return fmt.Errorf("invalid produce attempts: %d", n)
		}
		opts.attempts = n
		return nil
	}
}

func ProducerCurrencyOpt(currency string) ProducerOpt {
	return func(opts *producerOpts) error {
		opts.currency = currency
		return nil
	}
}

type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

type Decoder interface {
	Decode(b []byte, v any) error
}

type Serde interface {
	Encoder
	Decoder
}

func makeOp(s ...string) string {
	return strings.Join(s, ".")
}

func opErr(err error, op ...string) error {
	return fmt.Errorf("%s: %w", makeOp(op...), err)
}

func orderToSchemaV1(v domain.Order, currency string) (s schema.OrderV1) {
	s.EventID = v.EventID
	s.Number = v.Number
	s.TotalItems = v.TotalItems
	s.TotalCost = v.TotalCost.InexactFloat64()
	s.TotalSavings = v.TotalSavings.InexactFloat64()
	s.Currency = currency
	s.PaymentMethod = string(v.PaymentMethod)
	s.CompletedAt = v.CompletedAt.UnixMilli()

	s.Items = make([]schema.OrderItemV1, len(v.Items))
	for i, e := range v.Items {
		s.Items[i].ProductID = e.Product.ID
		s.Items[i].Name = e.Product.Name
		s.Items[i].UnitPrice = e.Product.EffectivePrice().InexactFloat64()
		s.Items[i].Quantity = e.Quantity
		s.Items[i].Subtotal = e.Subtotal().InexactFloat64()
	}
	return
}

func searchEventToSchemaV1(v domain.SearchEvent) (s schema.SearchEventV1) {
	s.Term = v.Term
	s.Results = v.Results
	s.Suggestion = v.Suggestion
	s.SearchedAt = v.SearchedAt.UnixMilli()
	return
}
