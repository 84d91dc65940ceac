package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// MatcherConfig holds configuration for the remote matching API client.
type MatcherConfig struct {
	// BaseURL is the root of the matching API. Empty disables the remote
	// matcher entirely; matching then runs on the local scorer only.
	BaseURL string `env:"MATCHER_BASE_URL" envDefault:""`

	// APIKey is sent on every request in the x-api-key header.
	APIKey string `env:"MATCHER_API_KEY" envDefault:""`

	// ConnectTimeout bounds connection establishment.
	ConnectTimeout time.Duration `env:"MATCHER_CONNECT_TIMEOUT" envDefault:"10s"`

	// ReadTimeout bounds waiting for the response after the request is sent.
	ReadTimeout time.Duration `env:"MATCHER_READ_TIMEOUT" envDefault:"15s"`
}

// RealtimeConfig holds configuration specific to the live conversation feed.
type RealtimeConfig struct {
	// WebSocketPath is the endpoint path for WebSocket connections.
	WebSocketPath string `env:"WEBSOCKET_PATH" envDefault:"/ws/v1/conversations"`

	// ClientSendChannelBuffer is the buffer size for channels sending events
	// to WebSocket clients. Helps in preventing blocking when broadcasting
	// events if a client is slow.
	ClientSendChannelBuffer int `env:"CLIENT_SEND_CHANNEL_BUFFER" envDefault:"10"`
}

// RedisConfig holds the connection settings for the change journal.
type RedisConfig struct {
	Host            string `env:"REDIS_HOST" envDefault:"localhost"`
	Port            string `env:"REDIS_PORT" envDefault:"6379"`
	Password        string `env:"REDIS_PASSWORD" envDefault:""`
	Database        int    `env:"REDIS_DATABASE" envDefault:"0"`
	MaxRetries      int    `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	PoolSize        int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns    int    `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	EnableTLS       bool   `env:"REDIS_ENABLE_TLS" envDefault:"false"`
	ConnMaxIdleTime string `env:"REDIS_CONN_MAX_IDLE_TIME" envDefault:"30m"`
	ConnMaxLifetime string `env:"REDIS_CONN_MAX_LIFETIME" envDefault:"1h"`

	// StreamMaxLength caps the change journal streams; older entries are
	// trimmed approximately once the stream grows past it.
	StreamMaxLength int64 `env:"REDIS_STREAM_MAX_LENGTH" envDefault:"10000"`
}

// GetAddr returns the host:port address for the Redis client.
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Config holds all configuration for the board service.
type Config struct {
	// HTTP
	Port string `env:"PORT" envDefault:"8080"`

	// MongoDB
	MongoDBURI   string `env:"MONGODB_URI,required"`
	DatabaseName string `env:"DATABASE_NAME" envDefault:"lostfound"`

	// JWT used to identify the caller on protected routes.
	JWTSecretKey string `env:"JWT_SECRET_KEY,required"`
	JWTIssuer    string `env:"JWT_ISSUER" envDefault:"lostfound-board"`

	Matcher  MatcherConfig
	Realtime RealtimeConfig
	Redis    RedisConfig
}

// LoadConfig loads configuration from environment variables and applies
// defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load configuration from environment: " + err.Error() +
			". Please ensure all required environment variables are set.")
	}
	if err := env.Parse(&cfg.Matcher); err != nil {
		return nil, errors.New("failed to load matcher configuration from environment: " + err.Error())
	}
	if err := env.Parse(&cfg.Realtime); err != nil {
		return nil, errors.New("failed to load realtime configuration from environment: " + err.Error())
	}
	if err := env.Parse(&cfg.Redis); err != nil {
		return nil, errors.New("failed to load redis configuration from environment: " + err.Error())
	}

	if cfg.MongoDBURI == "" {
		return nil, errors.New("MONGODB_URI environment variable is not set")
	}
	if cfg.JWTSecretKey == "" {
		return nil, errors.New("JWT_SECRET_KEY environment variable is not set")
	}
	if cfg.Realtime.WebSocketPath == "" {
		cfg.Realtime.WebSocketPath = "/ws/v1/conversations"
	}
	if cfg.Realtime.ClientSendChannelBuffer <= 0 {
		cfg.Realtime.ClientSendChannelBuffer = 10
	}
	if cfg.Matcher.ConnectTimeout <= 0 {
		cfg.Matcher.ConnectTimeout = 10 * time.Second
	}
	if cfg.Matcher.ReadTimeout <= 0 {
		cfg.Matcher.ReadTimeout = 15 * time.Second
	}

	return cfg, nil
}

// DefaultConfig returns a Config with local development defaults. Useful for
// tests and tooling that never reads the environment.
func DefaultConfig() *Config {
	return &Config{
		Port:         "8080",
		MongoDBURI:   "mongodb://localhost:27017",
		DatabaseName: "lostfound",
		JWTSecretKey: "local-development-secret",
		JWTIssuer:    "lostfound-board",
		Matcher: MatcherConfig{
			ConnectTimeout: 10 * time.Second,
			ReadTimeout:    15 * time.Second,
		},
		Realtime: RealtimeConfig{
			WebSocketPath:           "/ws/v1/conversations",
			ClientSendChannelBuffer: 10,
		},
		Redis: RedisConfig{
			Host:            "localhost",
			Port:            "6379",
			MaxRetries:      3,
			PoolSize:        10,
			MinIdleConns:    2,
			ConnMaxIdleTime: "30m",
			ConnMaxLifetime: "1h",
			StreamMaxLength: 10000,
		},
	}
}
