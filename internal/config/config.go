package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"food-storefront/internal/cart"
)

// Config holds all configuration for the storefront
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Redis    RedisConfig    `yaml:"redis"`
	Pricing  PricingConfig  `yaml:"pricing"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Tracking TrackingConfig `yaml:"tracking"`
	Session  SessionConfig  `yaml:"session"`
}

type ServiceConfig struct {
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"DATABASE_HOST"`
	Port     int    `yaml:"port" env:"DATABASE_PORT"`
	User     string `yaml:"user" env:"DATABASE_USER"`
	Password string `yaml:"password" env:"DATABASE_PASSWORD"`
	Database string `yaml:"database" env:"DATABASE_NAME"`
}

// RabbitMQConfig holds RabbitMQ connection configuration
type RabbitMQConfig struct {
	Host     string `yaml:"host" env:"RABBITMQ_HOST"`
	Port     int    `yaml:"port" env:"RABBITMQ_PORT"`
	User     string `yaml:"user" env:"RABBITMQ_USER"`
	Password string `yaml:"password" env:"RABBITMQ_PASSWORD"`
}

type RedisConfig struct {
	Addr      string        `yaml:"addr" env:"REDIS_ADDR"`
	Password  string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB        int           `yaml:"db" env:"REDIS_DB"`
	StatusTTL time.Duration `yaml:"status_ttl" env:"REDIS_STATUS_TTL"`
}

// PricingConfig keeps money values as strings so malformed input is caught
// by decimal parsing instead of silently truncated.
type PricingConfig struct {
	TaxRate     string `yaml:"tax_rate" env:"PRICING_TAX_RATE"`
	DeliveryFee string `yaml:"delivery_fee" env:"PRICING_DELIVERY_FEE"`
	PromoCode   string `yaml:"promo_code" env:"PRICING_PROMO_CODE"`
	PromoRate   string `yaml:"promo_rate" env:"PRICING_PROMO_RATE"`
}

type CatalogConfig struct {
	Source         string `yaml:"source" env:"CATALOG_SOURCE"`
	MigrationsPath string `yaml:"migrations_path" env:"CATALOG_MIGRATIONS_PATH"`
}

type TrackingConfig struct {
	Board string `yaml:"board" env:"TRACKING_BOARD"`
}

// SessionConfig controls expiry of abandoned shopper sessions. A zero
// IdleTTL keeps sessions until they are ended explicitly.
type SessionConfig struct {
	IdleTTL       time.Duration `yaml:"idle_ttl" env:"SESSION_IDLE_TTL"`
	SweepInterval time.Duration `yaml:"sweep_interval" env:"SESSION_SWEEP_INTERVAL"`
}

const (
	CatalogMemory   = "memory"
	CatalogPostgres = "postgres"
	BoardMemory     = "memory"
	BoardRedis      = "redis"
)

// Default returns a configuration that runs without any infrastructure
func Default() *Config {
	return &Config{
		Service: ServiceConfig{LogLevel: "info"},
		Database: DatabaseConfig{
			Host: "localhost", Port: 5432, User: "storefront", Password: "storefront", Database: "storefront",
		},
		RabbitMQ: RabbitMQConfig{Host: "localhost", Port: 5672, User: "guest", Password: "guest"},
		Redis:    RedisConfig{Addr: "localhost:6379", StatusTTL: 24 * time.Hour},
		Pricing: PricingConfig{
			TaxRate: "0.08", DeliveryFee: "5.00", PromoCode: "FIRSTBITE20", PromoRate: "0.20",
		},
		Catalog:  CatalogConfig{Source: CatalogMemory, MigrationsPath: "migrations"},
		Tracking: TrackingConfig{Board: BoardMemory},
		Session:  SessionConfig{IdleTTL: 30 * time.Minute, SweepInterval: time.Minute},
	}
}

// Load reads a YAML file over the defaults, then applies environment
// overrides. An empty filename skips the file.
func Load(filename string) (*Config, error) {
	cfg := Default()

	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects unknown backends and malformed pricing
func (c *Config) Validate() error {
	switch c.Catalog.Source {
	case CatalogMemory, CatalogPostgres:
	default:
		return fmt.Errorf("unknown catalog source: %s", c.Catalog.Source)
	}
	switch c.Tracking.Board {
	case BoardMemory, BoardRedis:
	default:
		return fmt.Errorf("unknown tracking board: %s", c.Tracking.Board)
	}
	if c.Session.IdleTTL > 0 && c.Session.SweepInterval <= 0 {
		return fmt.Errorf("session sweep_interval must be positive when idle_ttl is set")
	}
	if _, err := c.CartPricing(); err != nil {
		return fmt.Errorf("invalid pricing: %w", err)
	}
	return nil
}

// CartPricing parses the pricing section
func (c *Config) CartPricing() (cart.Pricing, error) {
	return cart.ParsePricing(c.Pricing.TaxRate, c.Pricing.DeliveryFee, c.Pricing.PromoCode, c.Pricing.PromoRate)
}

// DatabaseURL returns a PostgreSQL connection URL
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Database)
}

// RabbitMQURL returns an AMQP connection URL
func (c *Config) RabbitMQURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/",
		c.RabbitMQ.User, c.RabbitMQ.Password, c.RabbitMQ.Host, c.RabbitMQ.Port)
}
