package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter"
	"github.com/niksmo/storefront/internal/adapter/console"
	"github.com/niksmo/storefront/internal/adapter/kafka"
	"github.com/niksmo/storefront/internal/adapter/sheetapi"
	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/redis/go-redis/v9"
	"github.com/twmb/franz-go/pkg/sr"
)

type serdes struct {
	order       schema.Serde
	searchEvent schema.Serde
}

type outbound struct {
	fetcher  port.ProductsFetcher
	recent   port.RecentSearchesStorage
	orders   port.OrdersProducer
	searches port.SearchEventsEmitter
}

type coreService struct {
	catalog  *service.Catalog
	search   *service.Search
	cart     *service.Cart
	checkout *service.Checkout
}

type App struct {
	ctx      context.Context
	cfg      config.Config
	in       io.Reader
	out      io.Writer
	serdes   serdes
	outbound outbound
	service  coreService
	shell    *console.Shell
}

type Opt func(*App)

// IOOpt replaces the shell's stdin and stdout.
func IOOpt(in io.Reader, out io.Writer) Opt {
	return func(app *App) {
		app.in, app.out = in, out
	}
}

// FetcherOpt replaces the sheet API client.
func FetcherOpt(f port.ProductsFetcher) Opt {
	return func(app *App) {
		app.outbound.fetcher = f
	}
}

func New(ctx context.Context, cfg config.Config, opts ...Opt) *App {
	app := &App{ctx: ctx, cfg: cfg, in: os.Stdin, out: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}

	app.initLogger()
	app.initSerdes()
	app.initOutboundAdapters()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initSerdes() {
	const op = "App.initSerdes"

	if !app.cfg.EventsEnabled() {
		slog.Info("broker is not configured, events are disabled", "op", op)
		return
	}

	urls := app.cfg.Broker.SchemaRegistryURLs
	ctx := app.ctx

	srClient, err := sr.NewClient(sr.URLs(urls...))
	if err != nil {
		app.fallDown(op, err)
	}

	schemaCreater := schema.NewSchemaCreater(srClient)

	orderSerde, err := schema.NewSerdeOrderV1(
		ctx,
		schema.SubjectOpt(app.cfg.Broker.Topics.Orders+"-value"),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	searchEventSerde, err := schema.NewSerdeSearchEventV1(
		ctx,
		schema.SubjectOpt(app.cfg.Broker.Topics.SearchEvents+"-value"),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.serdes.order = orderSerde
	app.serdes.searchEvent = searchEventSerde
}

func (app *App) initOutboundAdapters() {
	const op = "App.initOutboundAdapters"

	if app.outbound.fetcher == nil {
		app.outbound.fetcher = sheetapi.New(
			app.cfg.Catalog.Endpoint,
			sheetapi.TimeoutOpt(app.cfg.Catalog.Timeout),
		)
	}

	recent, err := app.newRecentStorage()
	if err != nil {
		app.fallDown(op, err)
	}
	app.outbound.recent = recent

	if !app.cfg.EventsEnabled() {
		return
	}

	tlsCfg, err := adapter.MakeTLSConfig(
		app.cfg.Broker.TLS.CA, app.cfg.Broker.TLS.Cert, app.cfg.Broker.TLS.Key,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	seedBrokers := app.cfg.Broker.SeedBrokers

	ordersProducer, err := kafka.NewOrdersProducer(
		kafka.ProducerClientOpt(app.ctx, seedBrokers, app.cfg.Broker.Topics.Orders, tlsCfg),
		kafka.ProducerEncoderOpt(app.serdes.order),
		kafka.ProducerAttemptsOpt(app.cfg.Broker.ProduceAttempts),
		kafka.ProducerCurrencyOpt(app.cfg.Checkout.Currency),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	searchEmitter, err := kafka.NewSearchEventsEmitter(kafka.SearchEventsEmitterConfig{
		SeedBrokers: seedBrokers,
		Topic:       app.cfg.Broker.Topics.SearchEvents,
		Serde:       app.serdes.searchEvent,
		TLS:         tlsCfg,
	})
	if err != nil {
		app.fallDown(op, err)
	}

	app.outbound.orders = ordersProducer
	app.outbound.searches = searchEmitter
}

func (app *App) newRecentStorage() (port.RecentSearchesStorage, error) {
	s := app.cfg.Storage
	switch s.Driver {
	case config.StorageLevelDB:
		return storage.NewLevelDB(s.LevelDBPath, s.Key)
	case config.StorageRedis:
		return storage.NewRedis(app.ctx, &redis.Options{Addr: s.RedisAddr}, s.Key), nil
	case config.StorageMemory:
		return storage.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", s.Driver)
	}
}

func (app *App) initCoreService() {
	catalog := service.NewCatalog(app.outbound.fetcher, nil)

	recent := service.NewRecentSearches(
		app.ctx, app.outbound.recent, app.cfg.Search.RecentLimit,
	)
	searchOpts := []service.SearchOpt{
		service.SearchDebounceOpt(app.cfg.Search.Debounce),
		service.SearchRecentOpt(recent),
	}
	if app.outbound.searches != nil {
		searchOpts = append(searchOpts, service.SearchEmitterOpt(app.outbound.searches))
	}

	cart := service.NewCart()

	checkoutOpts := []service.CheckoutOpt{
		service.CheckoutDelayOpt(app.cfg.Checkout.SettlementDelay),
	}
	if app.outbound.orders != nil {
		checkoutOpts = append(checkoutOpts, service.CheckoutProducerOpt(app.outbound.orders))
	}

	app.service.catalog = catalog
	app.service.search = service.NewSearch(catalog, searchOpts...)
	app.service.cart = cart
	app.service.checkout = service.NewCheckout(cart, checkoutOpts...)
}

func (app *App) initInboundAdapters() {
	app.shell = console.NewShell(console.Deps{
		Catalog:  app.service.catalog,
		Search:   app.service.search,
		Cart:     app.service.cart,
		Checkout: app.service.checkout,
		Currency: app.cfg.Checkout.Currency,
	}, app.in, app.out)
}

// Run loads the catalog and starts the shell. stopFn is called when the
// shell exits.
func (app *App) Run(stopFn context.CancelFunc) {
	const op = "App.Run"
	log := slog.With("op", op)

	if err := app.service.catalog.Refetch(app.ctx); err != nil {
		log.Warn("starting with an empty catalog", "err", err)
	}

	go func() {
		defer stopFn()
		if err := app.shell.Run(app.ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("shell stopped", "err", err)
		}
	}()

	log.Info("application is running")
}

func (app *App) Close() {
	slog.Info("application is closing...")

	app.service.search.Close()
	app.outbound.recent.Close()
	if app.outbound.orders != nil {
		app.outbound.orders.Close()
	}
	if app.outbound.searches != nil {
		app.outbound.searches.Close()
	}

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
