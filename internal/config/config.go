package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Sale     SaleConfig     `yaml:"sale"`
	Report   ReportConfig   `yaml:"report"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port               int           `yaml:"port"`
	ReadTimeout        time.Duration `yaml:"readTimeout"`
	WriteTimeout       time.Duration `yaml:"writeTimeout"`
	IdleTimeout        time.Duration `yaml:"idleTimeout"`
	RateLimitPerMinute int           `yaml:"rateLimitPerMinute"`
	MaxBodyBytes       int64         `yaml:"maxBodyBytes"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
	AutoMigrate     bool          `yaml:"autoMigrate"`
}

// RedisConfig is optional; an empty Addr disables idempotent sale commits.
type RedisConfig struct {
	Addr           string        `yaml:"addr"`
	Password       string        `yaml:"password"`
	DB             int           `yaml:"db"`
	IdempotencyTTL time.Duration `yaml:"idempotencyTTL"`
}

type SaleConfig struct {
	TxTimeout time.Duration `yaml:"txTimeout"`
	MaxItems  int           `yaml:"maxItems"`
}

type ReportConfig struct {
	Timezone         string `yaml:"timezone"`
	RecentSalesLimit int    `yaml:"recentSalesLimit"`
}

const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:               8080,
			ReadTimeout:        10 * time.Second,
			WriteTimeout:       10 * time.Second,
			IdleTimeout:        30 * time.Second,
			RateLimitPerMinute: 300,
			MaxBodyBytes:       1 << 20,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            3306,
			User:            "shopledger",
			Password:        "secret",
			Name:            "shopledger",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			AutoMigrate:     true,
		},
		Redis: RedisConfig{
			IdempotencyTTL: 24 * time.Hour,
		},
		Sale: SaleConfig{
			TxTimeout: 5 * time.Second,
			MaxItems:  200,
		},
		Report: ReportConfig{
			Timezone:         "Local",
			RecentSalesLimit: 5,
		},
		Log: LogConfig{
			Level:  "info",
			Format: LogFormatJSON,
		},
	}
}

// Load reads configuration from the environment on top of the defaults.
func Load() (*Config, error) {
	return LoadWithBase(Default())
}

// LoadWithBase lets environment variables override the given base values.
func LoadWithBase(base Config) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", base.Server.Port)
	v.SetDefault("SERVER_READ_TIMEOUT", base.Server.ReadTimeout)
	v.SetDefault("SERVER_WRITE_TIMEOUT", base.Server.WriteTimeout)
	v.SetDefault("SERVER_IDLE_TIMEOUT", base.Server.IdleTimeout)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", base.Server.RateLimitPerMinute)
	v.SetDefault("SERVER_MAX_BODY_BYTES", base.Server.MaxBodyBytes)
	v.SetDefault("DB_HOST", base.Database.Host)
	v.SetDefault("DB_PORT", base.Database.Port)
	v.SetDefault("DB_USER", base.Database.User)
	v.SetDefault("DB_PASSWORD", base.Database.Password)
	v.SetDefault("DB_NAME", base.Database.Name)
	v.SetDefault("DB_MAX_OPEN_CONNS", base.Database.MaxOpenConns)
	v.SetDefault("DB_MAX_IDLE_CONNS", base.Database.MaxIdleConns)
	v.SetDefault("DB_CONN_MAX_LIFETIME", base.Database.ConnMaxLifetime)
	v.SetDefault("DB_AUTO_MIGRATE", base.Database.AutoMigrate)
	v.SetDefault("REDIS_ADDR", base.Redis.Addr)
	v.SetDefault("REDIS_PASSWORD", base.Redis.Password)
	v.SetDefault("REDIS_DB", base.Redis.DB)
	v.SetDefault("IDEMPOTENCY_TTL", base.Redis.IdempotencyTTL)
	v.SetDefault("SALE_TX_TIMEOUT", base.Sale.TxTimeout)
	v.SetDefault("SALE_MAX_ITEMS", base.Sale.MaxItems)
	v.SetDefault("SHOP_TIMEZONE", base.Report.Timezone)
	v.SetDefault("REPORT_RECENT_SALES", base.Report.RecentSalesLimit)
	v.SetDefault("LOG_LEVEL", base.Log.Level)
	v.SetDefault("LOG_FORMAT", base.Log.Format)

	cfg := &Config{
		Server: ServerConfig{
			Port:               v.GetInt("SERVER_PORT"),
			ReadTimeout:        v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:       v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:        v.GetDuration("SERVER_IDLE_TIMEOUT"),
			RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
			MaxBodyBytes:       v.GetInt64("SERVER_MAX_BODY_BYTES"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Addr:           v.GetString("REDIS_ADDR"),
			Password:       v.GetString("REDIS_PASSWORD"),
			DB:             v.GetInt("REDIS_DB"),
			IdempotencyTTL: v.GetDuration("IDEMPOTENCY_TTL"),
		},
		Sale: SaleConfig{
			TxTimeout: v.GetDuration("SALE_TX_TIMEOUT"),
			MaxItems:  v.GetInt("SALE_MAX_ITEMS"),
		},
		Report: ReportConfig{
			Timezone:         v.GetString("SHOP_TIMEZONE"),
			RecentSalesLimit: v.GetInt("REPORT_RECENT_SALES"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server max body bytes must be positive, got %d", c.Server.MaxBodyBytes)
	}
	if c.Sale.TxTimeout <= 0 {
		return fmt.Errorf("sale tx timeout must be positive, got %s", c.Sale.TxTimeout)
	}
	if c.Sale.MaxItems <= 0 {
		return fmt.Errorf("sale max items must be positive, got %d", c.Sale.MaxItems)
	}
	if c.Log.Format != LogFormatJSON && c.Log.Format != LogFormatConsole {
		return fmt.Errorf("log format must be %q or %q, got %q", LogFormatJSON, LogFormatConsole, c.Log.Format)
	}
	if _, err := c.Report.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the shop time zone used for day, week and month boundaries.
func (r ReportConfig) Location() (*time.Location, error) {
	if r.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading shop timezone %q: %w", r.Timezone, err)
	}
	return loc, nil
}
