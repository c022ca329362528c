package config

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/bethwel3001/Eco-mission/internal/core/domain"
)

// developmentJWTSecret signs tokens when ENV=development and no secret is set.
const developmentJWTSecret = "ecomission-development-secret"

type Config struct {
	Port        string        `env:"PORT,         default=8080"`
	Env         string        `env:"ENV,          default=development"`
	JWTSecret   string        `env:"JWT_SECRET"`
	TokenTTL    time.Duration `env:"TOKEN_TTL,    default=24h"`
	LogLevel    string        `env:"LOG_LEVEL,    default=info"`
	AdminEmails []string      `env:"ADMIN_EMAILS"`

	CatalogSeedFile string `env:"CATALOG_SEED_FILE"`

	Mongo       MongoConfig
	Redis       RedisConfig
	NATS        NATSConfig
	Ledger      LedgerConfig
	Leaderboard LeaderboardConfig
	Decay       DecayConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=ecomission"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,        default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=10"`
}

// NATSConfig is optional; an empty URL routes planet alerts to the log.
type NATSConfig struct {
	URL           string `env:"NATS_URL"`
	SubjectPrefix string `env:"NATS_SUBJECT_PREFIX, default=ecomission"`
}

type LedgerConfig struct {
	Workers     int `env:"LEDGER_WORKERS,      default=8"`
	MaxAttempts int `env:"LEDGER_MAX_ATTEMPTS, default=5"`
}

type LeaderboardConfig struct {
	CacheTTL time.Duration `env:"LEADERBOARD_CACHE_TTL, default=30s"`
}

type DecayConfig struct {
	Enabled        bool          `env:"DECAY_ENABLED,         default=false"`
	Interval       time.Duration `env:"DECAY_INTERVAL,        default=1h"`
	Rate           float64       `env:"DECAY_RATE,            default=1"`
	Floor          float64       `env:"DECAY_FLOOR,           default=30"`
	AlertThreshold float64       `env:"DECAY_ALERT_THRESHOLD, default=40"`
}

// Policy converts the decay settings into the domain policy.
func (d DecayConfig) Policy() domain.DecayPolicy {
	return domain.DecayPolicy{Rate: d.Rate, Floor: d.Floor, AlertThreshold: d.AlertThreshold}
}

// IsDevelopment reports whether the service runs in a local environment.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads a .env file when present and then configuration from environment
// variables using go-envconfig.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith processes configuration from an arbitrary lookuper and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		if key := envKey(reflect.TypeOf(cfg), err.Error()); key != "" {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = developmentJWTSecret
	}
	for i, e := range cfg.AdminEmails {
		cfg.AdminEmails[i] = strings.ToLower(strings.TrimSpace(e))
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.JWTSecret == "" && !c.IsDevelopment() {
		errs = append(errs, errors.New("JWT_SECRET is required outside development"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.Ledger.MaxAttempts < 1 {
		errs = append(errs, errors.New("LEDGER_MAX_ATTEMPTS must be at least 1"))
	}
	if c.Decay.Rate < 0 {
		errs = append(errs, errors.New("DECAY_RATE must not be negative"))
	}
	if c.Decay.Floor < domain.MinPlanetHealth || c.Decay.Floor > domain.MaxPlanetHealth {
		errs = append(errs, errors.New("DECAY_FLOOR must be within planet health bounds"))
	}
	return errors.Join(errs...)
}

// envKey maps the field path go-envconfig puts in front of its errors
// ("Mongo: URI: ...") back to the variable name in the env tag.
func envKey(t reflect.Type, msg string) string {
	for _, seg := range strings.Split(msg, ": ") {
		if t.Kind() != reflect.Struct {
			return ""
		}
		f, ok := t.FieldByName(seg)
		if !ok {
			return ""
		}
		if tag := f.Tag.Get("env"); tag != "" {
			return strings.TrimSpace(strings.SplitN(tag, ",", 2)[0])
		}
		t = f.Type
	}
	return ""
}
