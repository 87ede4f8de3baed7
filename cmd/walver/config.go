package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	walver "github.com/Walver-io/walver-sdk-go"
	"github.com/Walver-io/walver-sdk-go/redis"
	"github.com/Walver-io/walver-sdk-go/webhook"
	"github.com/spf13/viper"
)

const envPrefix = "WALVER"

type Config struct {
	APIKey          string        `mapstructure:"api_key"`
	BaseURL         string        `mapstructure:"base_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	RateLimitPerMin int           `mapstructure:"rate_limit_per_min"`
	LogLevel        string        `mapstructure:"log_level"`
	LogFormat       string        `mapstructure:"log_format"`

	Webhook WebhookConfig `mapstructure:"webhook"`
}

type WebhookConfig struct {
	ServerConfig    webhook.ServerConfig `mapstructure:"server_config"`
	Secret          string               `mapstructure:"secret"`
	SignatureScheme string               `mapstructure:"signature_scheme"`
	SignatureHeader string               `mapstructure:"signature_header"`

	StorageType         string                    `mapstructure:"storage_type"`
	RedisConfig         redis.RedisConfig         `mapstructure:"redis_config"`
	RedisSentinelConfig redis.RedisSentinelConfig `mapstructure:"redis_sentinel_config"`
}

// newViper returns a viper instance reading WALVER_* variables, with the
// defaults every command relies on.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("api_key", "")
	v.SetDefault("base_url", walver.DefaultBaseURL)
	v.SetDefault("timeout", walver.DefaultTimeout)
	v.SetDefault("rate_limit_per_min", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	v.SetDefault("webhook.server_config.host", "0.0.0.0")
	v.SetDefault("webhook.server_config.port", 8080)
	v.SetDefault("webhook.secret", "")
	v.SetDefault("webhook.signature_scheme", "hmac-sha256")
	v.SetDefault("webhook.signature_header", webhook.SignatureHeader)
	v.SetDefault("webhook.storage_type", "memory")

	// AutomaticEnv only resolves keys viper knows about, so every redis
	// setting gets a default to be reachable through WALVER_WEBHOOK_*.
	for key, value := range map[string]any{
		"webhook.redis_config.host":      "",
		"webhook.redis_config.port":      6379,
		"webhook.redis_config.password":  "",
		"webhook.redis_config.db":        0,
		"webhook.redis_config.namespace": "walver",

		"webhook.redis_sentinel_config.sentinel_host":     "",
		"webhook.redis_sentinel_config.sentinel_port":     26379,
		"webhook.redis_sentinel_config.sentinel_username": "",
		"webhook.redis_sentinel_config.password":          "",
		"webhook.redis_sentinel_config.master_name":       "",
		"webhook.redis_sentinel_config.db":                0,
		"webhook.redis_sentinel_config.namespace":         "walver",
	} {
		v.SetDefault(key, value)
	}
	return v
}

// loadConfig reads the optional config file and merges flags and environment.
func loadConfig(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return config, nil
}

func (c Config) clientConfig(logger *slog.Logger) walver.Config {
	return walver.Config{
		APIKey:          strings.TrimSpace(c.APIKey),
		BaseURL:         c.BaseURL,
		Timeout:         c.Timeout,
		RateLimitPerMin: c.RateLimitPerMin,
		Logger:          logger,
	}
}

func createDeliveryStore(config *WebhookConfig, logger *slog.Logger) (webhook.DeliveryStore, error) {
	switch config.StorageType {
	case "redis":
		logger.Info("Using redis delivery storage")
		client, err := redis.NewRedisClient(&config.RedisConfig)
		if err != nil {
			return nil, err
		}
		return webhook.NewRedisDeliveryStore(client, config.RedisConfig.Namespace, webhook.DeliveryTTL), nil
	case "redis_sentinel":
		logger.Info("Using redis sentinel delivery storage")
		client, err := redis.NewRedisSentinelClient(&config.RedisSentinelConfig)
		if err != nil {
			return nil, err
		}
		return webhook.NewRedisDeliveryStore(client, config.RedisSentinelConfig.Namespace, webhook.DeliveryTTL), nil
	case "memory":
		logger.Info("Using in memory delivery storage")
		return webhook.NewInMemoryDeliveryStore(webhook.DeliveryTTL), nil
	default:
		return nil, fmt.Errorf("%v is not a valid storage type", config.StorageType)
	}
}
