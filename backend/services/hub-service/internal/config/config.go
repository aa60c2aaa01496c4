package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "roamhub/backend/libs/config"
)

const defaultHTTPPort = "8090"

// Config defines hub service configuration.
type Config struct {
	HTTP struct {
		Port        string        `yaml:"port" env:"HUB_HTTP_PORT"`
		ReadTimeout time.Duration `yaml:"readTimeout" env:"HUB_HTTP_READ_TIMEOUT"`
		MaxBodySize int64         `yaml:"maxBodyBytes" env:"HUB_HTTP_MAX_BODY"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"HUB_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string        `yaml:"addr" env:"HUB_REDIS_ADDR"`
		Password string        `yaml:"password" env:"HUB_REDIS_PASSWORD"`
		DB       int           `yaml:"db" env:"HUB_REDIS_DB"`
		TTL      time.Duration `yaml:"ttl" env:"HUB_REDIS_TTL"`
	} `yaml:"redis"`
	AMQP struct {
		URL      string `yaml:"url" env:"HUB_AMQP_URL"`
		Exchange string `yaml:"exchange" env:"HUB_AMQP_EXCHANGE"`
	} `yaml:"amqp"`
	Auth struct {
		JWTSecret string        `yaml:"jwtSecret" env:"HUB_JWT_SECRET"`
		TokenTTL  time.Duration `yaml:"tokenTtl" env:"HUB_TOKEN_TTL"`
	} `yaml:"auth"`
	Authorization struct {
		ProviderID string   `yaml:"providerId" env:"HUB_PROVIDER_ID"`
		UIDs       []string `yaml:"uids" env:"HUB_ALLOWED_UIDS"`
		Contracts  []string `yaml:"contracts" env:"HUB_ALLOWED_CONTRACTS"`
		// QR code credentials as EVCOID=PIN pairs.
		PINs []string `yaml:"pins" env:"HUB_QR_PINS"`
	} `yaml:"authorization"`
	WebSocket struct {
		PingInterval time.Duration `yaml:"pingInterval" env:"HUB_WS_PING_INTERVAL"`
		WriteTimeout time.Duration `yaml:"writeTimeout" env:"HUB_WS_WRITE_TIMEOUT"`
	} `yaml:"websocket"`
}

// Load reads configuration via shared helper and applies defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = defaultHTTPPort
	cfg.HTTP.ReadTimeout = 15 * time.Second
	cfg.HTTP.MaxBodySize = 4 << 20
	cfg.Redis.TTL = 24 * time.Hour
	cfg.AMQP.Exchange = "roaming.events"
	cfg.Auth.TokenTTL = 24 * time.Hour
	cfg.WebSocket.PingInterval = 30 * time.Second
	cfg.WebSocket.WriteTimeout = 15 * time.Second

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields. Database, redis and amqp are optional.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("config: jwt secret is required")
	}
	if strings.TrimSpace(c.Authorization.ProviderID) == "" {
		return errors.New("config: provider id is required")
	}
	for _, pair := range c.Authorization.PINs {
		if _, _, ok := strings.Cut(pair, "="); !ok {
			return fmt.Errorf("config: qr pin %q is not EVCOID=PIN", pair)
		}
	}
	return nil
}

// HTTPAddress returns :port style address.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = defaultHTTPPort
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// PINs returns the configured QR code PINs keyed by contract id.
func (c *Config) PINs() map[string]string {
	out := make(map[string]string, len(c.Authorization.PINs))
	for _, pair := range c.Authorization.PINs {
		if evco, pin, ok := strings.Cut(pair, "="); ok {
			out[strings.TrimSpace(evco)] = pin
		}
	}
	return out
}
