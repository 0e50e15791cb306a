package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Wallet    WalletConfig    `mapstructure:"wallet"`
	Zebra     ZebraConfig     `mapstructure:"zebra"`
	Faucet    FaucetConfig    `mapstructure:"faucet"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type WalletConfig struct {
	DataDir    string `mapstructure:"data_dir"`
	BackendURI string `mapstructure:"backend_uri"`
	CLIPath    string `mapstructure:"cli_path"`
	Chain      string `mapstructure:"chain"`
}

type ZebraConfig struct {
	RPCURL   string        `mapstructure:"rpc_url"`
	User     string        `mapstructure:"user"`
	Password string        `mapstructure:"password"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// FaucetConfig holds the dispense bounds in ZEC.
type FaucetConfig struct {
	AmountMin     float64 `mapstructure:"amount_min"`
	AmountMax     float64 `mapstructure:"amount_max"`
	AmountDefault float64 `mapstructure:"amount_default"`
}

// RequestBounds converts the configured float amounts into exact decimals and
// checks that they form a usable range.
func (f FaucetConfig) RequestBounds() (RequestBounds, error) {
	b := RequestBounds{
		Min:     decimal.NewFromFloat(f.AmountMin),
		Max:     decimal.NewFromFloat(f.AmountMax),
		Default: decimal.NewFromFloat(f.AmountDefault),
	}
	if !b.Min.IsPositive() {
		return RequestBounds{}, fmt.Errorf("faucet amount min must be positive, got %s", b.Min)
	}
	if b.Min.GreaterThan(b.Max) {
		return RequestBounds{}, fmt.Errorf("faucet amount min %s exceeds max %s", b.Min, b.Max)
	}
	if b.Default.LessThan(b.Min) || b.Default.GreaterThan(b.Max) {
		return RequestBounds{}, fmt.Errorf("faucet default amount %s outside [%s, %s]", b.Default, b.Min, b.Max)
	}
	return b, nil
}

// RequestBounds is the immutable dispense range read once at startup.
type RequestBounds struct {
	Min     decimal.Decimal
	Max     decimal.Decimal
	Default decimal.Decimal
}

// Contains reports whether amount lies within [Min, Max].
func (b RequestBounds) Contains(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(b.Min) && amount.LessThanOrEqual(b.Max)
}

type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int64         `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type AdminConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"` // empty disables admin routes
	Issuer    string        `mapstructure:"issuer"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// legacyEnv maps config keys to the environment names the faucet container
// has always been started with. They take precedence over ZECKIT_* names.
var legacyEnv = map[string]string{
	"wallet.data_dir":       "ZINGO_DATA_DIR",
	"wallet.backend_uri":    "LIGHTWALLETD_URI",
	"wallet.cli_path":       "ZINGO_CLI_PATH",
	"zebra.rpc_url":         "ZEBRA_RPC_URL",
	"zebra.user":            "ZEBRA_RPC_USER",
	"zebra.password":        "ZEBRA_RPC_PASS",
	"faucet.amount_min":     "FAUCET_AMOUNT_MIN",
	"faucet.amount_max":     "FAUCET_AMOUNT_MAX",
	"faucet.amount_default": "FAUCET_AMOUNT_DEFAULT",
	"ratelimit.enabled":     "RATE_LIMIT_ENABLED",
	"ratelimit.requests":    "RATE_LIMIT_REQUESTS",
	"log.level":             "LOG_LEVEL",
}

// Load reads configuration from .env, file and environment variables.
// Environment variables override file values. Prefix: ZECKIT_.
// Nested keys use underscore: ZECKIT_SERVER_PORT, ZECKIT_REDIS_HOST, etc.
func Load(path string) (*Config, error) {
	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("wallet.data_dir", "/var/zingo")
	v.SetDefault("wallet.backend_uri", "http://zaino:9067")
	v.SetDefault("wallet.cli_path", "zingo-cli")
	v.SetDefault("wallet.chain", "regtest")
	v.SetDefault("zebra.rpc_url", "http://zebra:8232")
	v.SetDefault("zebra.user", "")
	v.SetDefault("zebra.password", "")
	v.SetDefault("zebra.timeout", "30s")
	v.SetDefault("faucet.amount_min", 0.01)
	v.SetDefault("faucet.amount_max", 100.0)
	v.SetDefault("faucet.amount_default", 10.0)
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.requests", 10)
	v.SetDefault("ratelimit.window", "1h")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "zeckit_faucet")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 5)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("admin.jwt_secret", "")
	v.SetDefault("admin.issuer", "zeckit-faucet")
	v.SetDefault("admin.token_ttl", "24h")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("ZECKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range legacyEnv {
		if err := v.BindEnv(key, env, "ZECKIT_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_"))); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	// Read config file (not required: env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
