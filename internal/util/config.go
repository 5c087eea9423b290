package util

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	SchedulerBackendTimer = "timer"
	SchedulerBackendRedis = "redis"

	EventRelayNone  = "none"
	EventRelayRedis = "redis"
	EventRelayAMQP  = "amqp"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	AllowedOrigins       []string      `mapstructure:"ALLOWED_ORIGINS"`
	HTTPServerAddress    string        `mapstructure:"HTTP_SERVER_ADDRESS"`
	StoreDriver          string        `mapstructure:"STORE_DRIVER"`
	DatabaseURL          string        `mapstructure:"DATABASE_URL"`
	TokenSecretKey       string        `mapstructure:"TOKEN_SECRET_KEY"`
	RedisServerAddress   string        `mapstructure:"REDIS_SERVER_ADDRESS"`
	AMQPURL              string        `mapstructure:"AMQP_URL"`
	SchedulerBackend     string        `mapstructure:"SCHEDULER_BACKEND"`
	EventRelay           string        `mapstructure:"EVENT_RELAY"`
	CloseTimeout         time.Duration `mapstructure:"CLOSE_TIMEOUT"`
	OverdueCheckInterval time.Duration `mapstructure:"OVERDUE_CHECK_INTERVAL"`
	OverdueGracePeriod   time.Duration `mapstructure:"OVERDUE_GRACE_PERIOD"`
	SubscriberBuffer     int           `mapstructure:"SUBSCRIBER_BUFFER"`
	LogLevel             string        `mapstructure:"LOG_LEVEL"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()

	// Set defaults for non-sensitive config
	v.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000"})
	v.SetDefault("HTTP_SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("SCHEDULER_BACKEND", SchedulerBackendTimer)
	v.SetDefault("EVENT_RELAY", EventRelayNone)
	v.SetDefault("CLOSE_TIMEOUT", "30s")
	v.SetDefault("OVERDUE_CHECK_INTERVAL", "1m")
	v.SetDefault("OVERDUE_GRACE_PERIOD", "2m")
	v.SetDefault("SUBSCRIBER_BUFFER", 64)
	v.SetDefault("LOG_LEVEL", "info")

	// Sensitive keys have no default; registering them lets environment variables
	// fill them when the config file omits them.
	for _, key := range []string{"DATABASE_URL", "TOKEN_SECRET_KEY", "REDIS_SERVER_ADDRESS", "AMQP_URL"} {
		v.SetDefault(key, "")
	}

	// Prefer environment variables over config file
	v.AutomaticEnv()

	// Load config file
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err = v.ReadInConfig(); err != nil {
		return
	}

	// Unmarshal config into struct
	err = v.UnmarshalExact(&config)
	if err != nil {
		return
	}

	// Validate required configuration
	err = validateConfig(config)
	return
}

func validateConfig(config Config) error {
	if config.TokenSecretKey == "" {
		return fmt.Errorf("TOKEN_SECRET_KEY is required")
	}

	switch config.StoreDriver {
	case StoreDriverPostgres:
		if config.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=%s", StoreDriverPostgres)
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", config.StoreDriver)
	}

	switch config.SchedulerBackend {
	case SchedulerBackendTimer:
	case SchedulerBackendRedis:
		if config.RedisServerAddress == "" {
			return fmt.Errorf("REDIS_SERVER_ADDRESS is required when SCHEDULER_BACKEND=%s", SchedulerBackendRedis)
		}
	default:
		return fmt.Errorf("unknown SCHEDULER_BACKEND %q", config.SchedulerBackend)
	}

	switch config.EventRelay {
	case EventRelayNone:
	case EventRelayRedis:
		if config.RedisServerAddress == "" {
			return fmt.Errorf("REDIS_SERVER_ADDRESS is required when EVENT_RELAY=%s", EventRelayRedis)
		}
	case EventRelayAMQP:
		if config.AMQPURL == "" {
			return fmt.Errorf("AMQP_URL is required when EVENT_RELAY=%s", EventRelayAMQP)
		}
	default:
		return fmt.Errorf("unknown EVENT_RELAY %q", config.EventRelay)
	}

	if config.CloseTimeout <= 0 {
		return fmt.Errorf("CLOSE_TIMEOUT must be positive")
	}
	if config.OverdueCheckInterval <= 0 {
		return fmt.Errorf("OVERDUE_CHECK_INTERVAL must be positive")
	}

	if _, err := zerolog.ParseLevel(config.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return nil
}

// ZerologLevel returns the configured global log level.
func (config Config) ZerologLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
