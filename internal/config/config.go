// Package config loads voyage settings from defaults, an optional YAML file,
// an optional .env file and VOYAGE_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Store kinds.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the full application configuration.
type Config struct {
	Provider          string        `mapstructure:"provider"`
	Model             string        `mapstructure:"model"`
	BaseURL           string        `mapstructure:"base_url"`
	GenerationTimeout time.Duration `mapstructure:"generation_timeout"`
	LogLevel          string        `mapstructure:"log_level"`
	LogJSON           bool          `mapstructure:"log_json"`
	ExportDir         string        `mapstructure:"export_dir"`
	Store             StoreConfig   `mapstructure:"store"`
	HTTP              HTTPConfig    `mapstructure:"http"`
}

// StoreConfig selects and configures session persistence.
type StoreConfig struct {
	Kind          string        `mapstructure:"kind"`
	Dir           string        `mapstructure:"dir"`
	TTL           time.Duration `mapstructure:"ttl"`
	LockTTL       time.Duration `mapstructure:"lock_ttl"`
	EncryptionKey string        `mapstructure:"encryption_key"`
	Redis         RedisConfig   `mapstructure:"redis"`
}

// RedisConfig is used when Store.Kind is "redis".
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// HTTPConfig configures `voyage serve`.
type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Provider:          ProviderOpenAI,
		GenerationTimeout: 60 * time.Second,
		LogLevel:          "info",
		ExportDir:         ".",
		Store: StoreConfig{
			Kind:    StoreFile,
			Dir:     ".voyage/sessions",
			LockTTL: 2 * time.Minute,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "voyage:session:",
			},
		},
		HTTP: HTTPConfig{Addr: ":8080"},
	}
}

// envKeys maps VOYAGE_* variables to their dotted config path.
var envKeys = map[string]string{
	"VOYAGE_PROVIDER":           "provider",
	"VOYAGE_MODEL":              "model",
	"VOYAGE_BASE_URL":           "base_url",
	"VOYAGE_GENERATION_TIMEOUT": "generation_timeout",
	"VOYAGE_LOG_LEVEL":          "log_level",
	"VOYAGE_LOG_JSON":           "log_json",
	"VOYAGE_EXPORT_DIR":         "export_dir",
	"VOYAGE_STORE":              "store.kind",
	"VOYAGE_STORE_DIR":          "store.dir",
	"VOYAGE_SESSION_TTL":        "store.ttl",
	"VOYAGE_LOCK_TTL":           "store.lock_ttl",
	"VOYAGE_ENCRYPTION_KEY":     "store.encryption_key",
	"VOYAGE_REDIS_ADDR":         "store.redis.addr",
	"VOYAGE_REDIS_PASSWORD":     "store.redis.password",
	"VOYAGE_REDIS_DB":           "store.redis.db",
	"VOYAGE_REDIS_PREFIX":       "store.redis.prefix",
	"VOYAGE_HTTP_ADDR":          "http.addr",
}

type loader struct {
	file   string
	dotenv string
	lookup func(string) (string, bool)
}

// Option configures Load.
type Option func(*loader)

// WithFile reads a YAML file. A missing file is an error.
func WithFile(path string) Option {
	return func(l *loader) {
		l.file = path
	}
}

// WithDotEnv reads variables from a .env file. A missing file is ignored.
func WithDotEnv(path string) Option {
	return func(l *loader) {
		l.dotenv = path
	}
}

// WithLookup replaces os.LookupEnv, for tests.
func WithLookup(lookup func(string) (string, bool)) Option {
	return func(l *loader) {
		l.lookup = lookup
	}
}

// Load builds and validates the configuration.
// Process environment wins over the .env file, which wins over the YAML file.
func Load(opts ...Option) (*Config, error) {
	l := loader{dotenv: ".env", lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(&l)
	}

	cfg := Default()

	if l.file != "" {
		raw, err := os.ReadFile(l.file)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		var tree map[string]any
		if err := yaml.Unmarshal(raw, &tree); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", l.file, err)
		}
		if err := decode(tree, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file %s: %w", l.file, err)
		}
	}

	dotenv := map[string]string{}
	if l.dotenv != "" {
		vars, err := godotenv.Read(l.dotenv)
		switch {
		case err == nil:
			dotenv = vars
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("failed to read %s: %w", l.dotenv, err)
		}
	}

	tree := map[string]any{}
	for env, path := range envKeys {
		value, ok := l.lookup(env)
		if !ok {
			value, ok = dotenv[env]
		}
		if ok {
			set(tree, path, value)
		}
	}
	if err := decode(tree, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerations and required fields.
func (c *Config) Validate() error {
	var errs []error
	switch c.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		errs = append(errs, fmt.Errorf("%w: provider %q (want openai or gemini)", ErrInvalid, c.Provider))
	}
	switch c.Store.Kind {
	case StoreMemory, StoreFile:
	case StoreRedis:
		if c.Store.Redis.Addr == "" {
			errs = append(errs, fmt.Errorf("%w: store.redis.addr is required", ErrInvalid))
		}
		// Locks are not extended while a generator runs.
		if c.GenerationTimeout > 0 && c.Store.LockTTL <= c.GenerationTimeout {
			errs = append(errs, fmt.Errorf("%w: store.lock_ttl (%s) must exceed generation_timeout (%s)",
				ErrInvalid, c.Store.LockTTL, c.GenerationTimeout))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: store kind %q (want memory, file or redis)", ErrInvalid, c.Store.Kind))
	}
	if c.GenerationTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: generation_timeout must be positive", ErrInvalid))
	}
	if c.Store.TTL < 0 {
		errs = append(errs, fmt.Errorf("%w: store.ttl must not be negative", ErrInvalid))
	}
	return errors.Join(errs...)
}

func decode(input map[string]any, out *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// set writes value at a dotted path, creating nested maps.
func set(tree map[string]any, path, value string) {
	parts := strings.Split(path, ".")
	for _, p := range parts[:len(parts)-1] {
		next, ok := tree[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			tree[p] = next
		}
		tree = next
	}
	tree[parts[len(parts)-1]] = value
}
