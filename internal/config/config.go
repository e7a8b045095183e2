package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "LISTING"

// Catalog backends.
const (
	BackendStatic  = "static"
	BackendSpanner = "spanner"
	BackendGraphQL = "graphql"
)

const (
	defaultHTTPAddr        = ":8080"
	defaultGRPCAddr        = ":9090"
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultRemoteTimeout   = 10 * time.Second
	defaultFacetTTL        = 5 * time.Minute
	defaultLogLevel        = "info"
)

var (
	// ErrUnknownBackend is returned for an unsupported catalog.backend value.
	ErrUnknownBackend = errors.New("unknown catalog backend")
	// ErrMissingSpannerDatabase is returned when the spanner backend has no database.
	ErrMissingSpannerDatabase = errors.New("spanner backend requires spanner.database")
	// ErrMissingGraphQLEndpoint is returned when the graphql backend has no endpoint.
	ErrMissingGraphQLEndpoint = errors.New("graphql backend requires remote.endpoint")
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	HTTP    HTTPConfig    `mapstructure:"http"`
	GRPC    GRPCConfig    `mapstructure:"grpc"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Spanner SpannerConfig `mapstructure:"spanner"`
	Remote  RemoteConfig  `mapstructure:"remote"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Log     LogConfig     `mapstructure:"log"`
}

// HTTPConfig configures the JSON API listener.
type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// GRPCConfig configures the gRPC listener. An empty Addr disables it.
type GRPCConfig struct {
	Addr string `mapstructure:"addr"`
}

// CatalogConfig selects where products come from.
type CatalogConfig struct {
	// Backend is one of static, spanner or graphql.
	Backend string `mapstructure:"backend"`
	// File overrides the bundled catalog for the static backend.
	File string `mapstructure:"file"`
}

// SpannerConfig stores database parameters.
type SpannerConfig struct {
	Database     string `mapstructure:"database"`
	EmulatorHost string `mapstructure:"emulator_host"`
}

// RemoteConfig configures the remote query variant.
type RemoteConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// RedisConfig configures the facet cache. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	FacetTTL time.Duration `mapstructure:"facet_ttl"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Load reads defaults, the optional YAML file at path and LISTING_*
// environment overrides, in increasing precedence.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	return FromViper(v)
}

// FromViper decodes and validates an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field requirements.
func (c *Config) Validate() error {
	switch c.Catalog.Backend {
	case BackendStatic:
	case BackendSpanner:
		if c.Spanner.Database == "" {
			return ErrMissingSpannerDatabase
		}
	case BackendGraphQL:
		if c.Remote.Endpoint == "" {
			return ErrMissingGraphQLEndpoint
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Catalog.Backend)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", defaultHTTPAddr)
	v.SetDefault("http.read_timeout", defaultReadTimeout)
	v.SetDefault("http.write_timeout", defaultWriteTimeout)
	v.SetDefault("http.shutdown_timeout", defaultShutdownTimeout)
	v.SetDefault("grpc.addr", defaultGRPCAddr)
	v.SetDefault("catalog.backend", BackendStatic)
	v.SetDefault("catalog.file", "")
	v.SetDefault("spanner.database", "")
	v.SetDefault("spanner.emulator_host", "")
	v.SetDefault("remote.endpoint", "")
	v.SetDefault("remote.timeout", defaultRemoteTimeout)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.facet_ttl", defaultFacetTTL)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.development", false)
}
