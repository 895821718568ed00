package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config captures everything the service reads from the environment so main
// stays lean.
type Config struct {
	App struct {
		Addr     string `envconfig:"ADDR" default:":8080"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"rapportering"`
	}

	Redis RedisConfig

	Kafka struct {
		Brokers       []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
		ConsumerGroup string   `envconfig:"KAFKA_CONSUMER_GROUP" default:"dp-rapportering-v1"`
		InboundTopic  string   `envconfig:"KAFKA_INBOUND_TOPIC" default:"rapportering.hendelser.v1"`
		OutboundTopic string   `envconfig:"KAFKA_OUTBOUND_TOPIC" default:"rapportering.perioder.v1"`
	}

	Auth struct {
		JWTSigningKey string `envconfig:"JWT_SIGNING_KEY" default:"dev-secret-key-change-in-production"`
	}

	Jobs struct {
		SubmissionInterval time.Duration `envconfig:"SUBMISSION_SWEEP_INTERVAL" default:"1h"`
		NewCycleInterval   time.Duration `envconfig:"NEW_CYCLE_INTERVAL" default:"24h"`
	}
}

// RedisConfig configures the duplicate-event registry connection. An empty
// URL disables Redis and falls back to the in-memory registry.
type RedisConfig struct {
	URL          string        `envconfig:"REDIS_URL" default:""`
	PoolSize     int           `envconfig:"REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"REDIS_WRITE_TIMEOUT" default:"3s"`
}

// ConnectionString builds the Postgres DSN from the DB settings.
func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// Load reads the config from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}
