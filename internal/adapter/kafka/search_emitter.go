package kafka

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"strings"

	"github.com/lovoo/goka"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/schema"
)

var _ port.SearchEventsEmitter = (*SearchEventsEmitter)(nil)

// A searchEventCodec used for serde [schema.SearchEventV1]
type searchEventCodec struct {
	serde Serde
}

func (c searchEventCodec) Encode(v any) ([]byte, error) {
	const op = "searchEventCodec.Encode"
	if _, ok := v.(schema.SearchEventV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c searchEventCodec) Decode(data []byte) (any, error) {
	const op = "searchEventCodec.Decode"
	var s schema.SearchEventV1
	if err := c.serde.Decode(data, &s); err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

type SyncEmitter interface {
	EmitSync(key string, msg any) error
	Finish() error
}

// A SearchEventsEmitterConfig used for setup [SearchEventsEmitter].
//
// SeedBrokers, Topic and Serde are required.
type SearchEventsEmitterConfig struct {
	SeedBrokers []string
	Topic       string
	Serde       Serde
	TLS         *tls.Config
}

func (c SearchEventsEmitterConfig) validate() error {
	if len(c.SeedBrokers) == 0 || c.Topic == "" || c.Serde == nil {
		return ErrTooFewOpts
	}
	return nil
}

// A SearchEventsEmitter publishes committed searches to a goka stream,
// keyed by the lowercased term.
type SearchEventsEmitter struct {
	emitter  SyncEmitter
	opPrefix string
}

func NewSearchEventsEmitter(
	cfg SearchEventsEmitterConfig,
) (SearchEventsEmitter, error) {
	const op = "NewSearchEventsEmitter"

	if err := cfg.validate(); err != nil {
		return SearchEventsEmitter{}, opErr(err, op)
	}

	var opts []goka.EmitterOption
	if cfg.TLS != nil {
		saramaCfg := goka.DefaultConfig()
		saramaCfg.Net.TLS.Enable = true
		saramaCfg.Net.TLS.Config = cfg.TLS
		opts = append(opts, goka.WithEmitterProducerBuilder(
			goka.ProducerBuilderWithConfig(saramaCfg),
		))
	}

	ge, err := goka.NewEmitter(
		cfg.SeedBrokers,
		goka.Stream(cfg.Topic),
		searchEventCodec{serde: cfg.Serde},
		opts...,
	)
	if err != nil {
		return SearchEventsEmitter{}, opErr(err, op)
	}
	return newSearchEventsEmitter(ge), nil
}

func newSearchEventsEmitter(e SyncEmitter) SearchEventsEmitter {
	return SearchEventsEmitter{emitter: e, opPrefix: "SearchEventsEmitter"}
}

func (e SearchEventsEmitter) EmitSearch(
	ctx context.Context, evt domain.SearchEvent,
) error {
	const op = "EmitSearch"

	if err := ctx.Err(); err != nil {
		return opErr(err, e.opPrefix, op)
	}
	if strings.TrimSpace(evt.Term) == "" {
		return opErr(errors.New("empty search term"), e.opPrefix, op)
	}

	key := strings.ToLower(strings.TrimSpace(evt.Term))
	if err := e.emitter.EmitSync(key, searchEventToSchemaV1(evt)); err != nil {
		return opErr(err, e.opPrefix, op)
	}
	return nil
}

func (e SearchEventsEmitter) Close() {
	const op = "Close"
	log := slog.With("op", makeOp(e.opPrefix, op))

	log.Info("closing emitter...")
	if err := e.emitter.Finish(); err != nil {
		log.Error("failed to finish gracefully", "err", err)
		return
	}
	log.Info("emitter is closed")
}
