package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// FileConfig mirrors the environment keys for the optional YAML file.
type FileConfig struct {
	Port            string `yaml:"port"`
	DatabaseURL     string `yaml:"database_url"`
	SecretKey       string `yaml:"jwt_secret_key"`
	AMQPURL         string `yaml:"amqp_url"`
	AMQPExchange    string `yaml:"amqp_exchange"`
	TaxRates        string `yaml:"tax_rates"`
	Timezone        string `yaml:"timezone"`
	CacheTTL        string `yaml:"cache_ttl"`
	AccessTokenTTL  string `yaml:"access_token_ttl"`
	RefreshTokenTTL string `yaml:"refresh_token_ttl"`
	LogLevel        string `yaml:"log_level"`
	LogFormat       string `yaml:"log_format"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

type Config struct {
	Port            string
	DatabaseURL     string
	SecretKey       []byte
	AMQPURL         string
	AMQPExchange    string
	TaxRates        []decimal.Decimal
	Location        *time.Location
	CacheTTL        time.Duration
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

var defaults = FileConfig{
	Port:            ":8080",
	AMQPExchange:    "restro.changes",
	TaxRates:        "5,12,18",
	Timezone:        "UTC",
	CacheTTL:        "30s",
	AccessTokenTTL:  "15m",
	RefreshTokenTTL: "168h",
	LogLevel:        "info",
	LogFormat:       "text",
	ShutdownTimeout: "10s",
}

// Load reads .env (if present), the CONFIG_FILE yaml (if set) and the process
// environment, later sources overriding earlier ones.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return LoadFrom(os.Getenv)
}

func LoadFrom(getenv func(string) string) (*Config, error) {
	raw := defaults
	if path := getenv("CONFIG_FILE"); path != "" {
		file, err := readFile(path)
		if err != nil {
			return nil, err
		}
		overlay(&raw, file)
	}
	overlay(&raw, FileConfig{
		Port:            getenv("PORT"),
		DatabaseURL:     getenv("DATABASE_URL"),
		SecretKey:       getenv("JWT_SECRET_KEY"),
		AMQPURL:         getenv("AMQP_URL"),
		AMQPExchange:    getenv("AMQP_EXCHANGE"),
		TaxRates:        getenv("TAX_RATES"),
		Timezone:        getenv("TIMEZONE"),
		CacheTTL:        getenv("CACHE_TTL"),
		AccessTokenTTL:  getenv("ACCESS_TOKEN_TTL"),
		RefreshTokenTTL: getenv("REFRESH_TOKEN_TTL"),
		LogLevel:        getenv("LOG_LEVEL"),
		LogFormat:       getenv("LOG_FORMAT"),
		ShutdownTimeout: getenv("SHUTDOWN_TIMEOUT"),
	})
	return parse(raw)
}

func readFile(path string) (FileConfig, error) {
	var cfg FileConfig
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

func overlay(dst *FileConfig, src FileConfig) {
	set := func(d *string, s string) {
		if s = strings.TrimSpace(s); s != "" {
			*d = s
		}
	}
	set(&dst.Port, src.Port)
	set(&dst.DatabaseURL, src.DatabaseURL)
	set(&dst.SecretKey, src.SecretKey)
	set(&dst.AMQPURL, src.AMQPURL)
	set(&dst.AMQPExchange, src.AMQPExchange)
	set(&dst.TaxRates, src.TaxRates)
	set(&dst.Timezone, src.Timezone)
	set(&dst.CacheTTL, src.CacheTTL)
	set(&dst.AccessTokenTTL, src.AccessTokenTTL)
	set(&dst.RefreshTokenTTL, src.RefreshTokenTTL)
	set(&dst.LogLevel, src.LogLevel)
	set(&dst.LogFormat, src.LogFormat)
	set(&dst.ShutdownTimeout, src.ShutdownTimeout)
}

func parse(raw FileConfig) (*Config, error) {
	if raw.SecretKey == "" {
		return nil, errors.New("JWT secret key not set")
	}

	cfg := &Config{
		Port:         raw.Port,
		DatabaseURL:  raw.DatabaseURL,
		SecretKey:    []byte(raw.SecretKey),
		AMQPURL:      raw.AMQPURL,
		AMQPExchange: raw.AMQPExchange,
		LogLevel:     raw.LogLevel,
		LogFormat:    raw.LogFormat,
	}
	if !strings.Contains(cfg.Port, ":") {
		cfg.Port = ":" + cfg.Port
	}

	rates, err := ParseTaxRates(raw.TaxRates)
	if err != nil {
		return nil, err
	}
	cfg.TaxRates = rates

	loc, err := time.LoadLocation(raw.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", raw.Timezone, err)
	}
	cfg.Location = loc

	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"CACHE_TTL", raw.CacheTTL, &cfg.CacheTTL},
		{"ACCESS_TOKEN_TTL", raw.AccessTokenTTL, &cfg.AccessTokenTTL},
		{"REFRESH_TOKEN_TTL", raw.RefreshTokenTTL, &cfg.RefreshTokenTTL},
		{"SHUTDOWN_TIMEOUT", raw.ShutdownTimeout, &cfg.ShutdownTimeout},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(d.raw)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("invalid %s %q", d.name, d.raw)
		}
		*d.dst = v
	}

	return cfg, nil
}

// ParseTaxRates reads a comma separated list of percentages.
func ParseTaxRates(s string) ([]decimal.Decimal, error) {
	var rates []decimal.Decimal
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		rate, err := decimal.NewFromString(part)
		if err != nil {
			return nil, fmt.Errorf("invalid tax rate %q: %w", part, err)
		}
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
			return nil, fmt.Errorf("tax rate %s out of range", part)
		}
		rates = append(rates, rate)
	}
	if len(rates) == 0 {
		return nil, errors.New("no tax rates configured")
	}
	return rates, nil
}
