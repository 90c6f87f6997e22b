package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileEnvName = "STOREFRONT_CONFIG_FILE"
	envPrefix         = "STOREFRONT"
)

const (
	StorageLevelDB = "leveldb"
	StorageRedis   = "redis"
	StorageMemory  = "memory"
)

type catalog struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type search struct {
	Debounce    time.Duration `mapstructure:"debounce"`
	RecentLimit int           `mapstructure:"recent_limit"`
}

type checkout struct {
	SettlementDelay time.Duration `mapstructure:"settlement_delay"`
	Currency        string        `mapstructure:"currency"`
}

type storage struct {
	Driver      string `mapstructure:"driver"`
	LevelDBPath string `mapstructure:"leveldb_path"`
	RedisAddr   string `mapstructure:"redis_addr"`
	Key         string `mapstructure:"key"`
}

type topics struct {
	Orders       string `mapstructure:"orders"`
	SearchEvents string `mapstructure:"search_events"`
}

type brokerTLS struct {
	CA   string `mapstructure:"ca"`
	Cert string `mapstructure:"cert"`
	Key  string `mapstructure:"key"`
}

type broker struct {
	SeedBrokers        []string  `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string  `mapstructure:"schema_registry_urls"`
	Topics             topics    `mapstructure:"topics"`
	TLS                brokerTLS `mapstructure:"tls"`
	ProduceAttempts    int       `mapstructure:"produce_attempts"`
}

type Config struct {
	LogLevel slog.Level `mapstructure:"log_level"`
	Catalog  catalog    `mapstructure:"catalog"`
	Search   search     `mapstructure:"search"`
	Checkout checkout   `mapstructure:"checkout"`
	Storage  storage    `mapstructure:"storage"`
	Broker   broker     `mapstructure:"broker"`
}

// EventsEnabled reports whether orders and search events are published.
func (c Config) EventsEnabled() bool {
	return len(c.Broker.SeedBrokers) != 0
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("catalog.endpoint", "https://sheetlabs.com/AKTA/Dsicari0")
	v.SetDefault("catalog.timeout", 15*time.Second)
	v.SetDefault("search.debounce", 300*time.Millisecond)
	v.SetDefault("search.recent_limit", 5)
	v.SetDefault("checkout.settlement_delay", 2*time.Second)
	v.SetDefault("checkout.currency", "RD$")
	v.SetDefault("storage.driver", StorageMemory)
	v.SetDefault("storage.leveldb_path", "storefront.db")
	v.SetDefault("storage.redis_addr", "localhost:6379")
	v.SetDefault("storage.key", "storefront:recent_searches")
	v.SetDefault("broker.seed_brokers", []string{})
	v.SetDefault("broker.schema_registry_urls", []string{})
	v.SetDefault("broker.topics.orders", "storefront-orders")
	v.SetDefault("broker.topics.search_events", "storefront-search-events")
	v.SetDefault("broker.tls.ca", "")
	v.SetDefault("broker.tls.cert", "")
	v.SetDefault("broker.tls.key", "")
	v.SetDefault("broker.produce_attempts", 3)
}

// Load reads the configuration from the process arguments and environment
// and exits the process when it is invalid.
func Load() Config {
	cfg, err := LoadArgs(os.Args[1:])
	if err != nil {
		die(err)
	}
	return cfg
}

// LoadArgs resolves the config file from args or STOREFRONT_CONFIG_FILE,
// applies defaults and STOREFRONT_* overrides. A missing file path means
// defaults and environment only.
func LoadArgs(args []string) (Config, error) {
	const op = "config.LoadArgs"

	path, err := getConfigFilepath(args)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	var cfg Config
	err = v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error

	if c.Catalog.Endpoint == "" {
		errs = append(errs, errors.New("catalog.endpoint is required"))
	}
	if c.Catalog.Timeout <= 0 {
		errs = append(errs, errors.New("catalog.timeout must be positive"))
	}
	if c.Search.Debounce <= 0 {
		errs = append(errs, errors.New("search.debounce must be positive"))
	}
	if c.Checkout.SettlementDelay < 0 {
		errs = append(errs, errors.New("checkout.settlement_delay must not be negative"))
	}
	switch c.Storage.Driver {
	case StorageLevelDB, StorageRedis, StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", c.Storage.Driver))
	}
	if c.EventsEnabled() && len(c.Broker.SchemaRegistryURLs) == 0 {
		errs = append(errs, errors.New("broker.schema_registry_urls is required with seed_brokers"))
	}
	if c.Broker.ProduceAttempts < 1 {
		errs = append(errs, errors.New("broker.produce_attempts must be at least 1"))
	}

	return errors.Join(errs...)
}

func getConfigFilepath(args []string) (string, error) {
	cmdLine := pflag.NewFlagSet("storefront", pflag.ContinueOnError)
	arg := cmdLine.String("config", "", "config file")
	if err := cmdLine.Parse(args); err != nil {
		return "", err
	}
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env, nil
	}
	return *arg, nil
}

func die(err error) {
	fmt.Printf("failed to load config: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	template := `
	General:
	LogLevel=%q

	Catalog:
	Endpoint=%q
	Timeout=%q

	Search:
	Debounce=%q
	RecentLimit=%d

	Checkout:
	SettlementDelay=%q
	Currency=%q

	Storage:
	Driver=%q
	LevelDBPath=%q
	RedisAddr=%q
	Key=%q

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	ProduceAttempts=%d
	Topics:
		Orders=%q
		SearchEvents=%q
	TLS:
		CA=%q
		Cert=%q
		Key=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(template, "\n"),
		c.LogLevel,
		c.Catalog.Endpoint,
		c.Catalog.Timeout,
		c.Search.Debounce,
		c.Search.RecentLimit,
		c.Checkout.SettlementDelay,
		c.Checkout.Currency,
		c.Storage.Driver,
		c.Storage.LevelDBPath,
		c.Storage.RedisAddr,
		c.Storage.Key,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.ProduceAttempts,
		c.Broker.Topics.Orders,
		c.Broker.Topics.SearchEvents,
		c.Broker.TLS.CA,
		c.Broker.TLS.Cert,
		c.Broker.TLS.Key,
	)
}
