// Package redis builds go-redis clients from the JSON configuration used by
// the webhook receiver.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const connectTimeout = 5 * time.Second

type RedisConfig struct {
	Host      string `json:"host" mapstructure:"host"`
	Port      int    `json:"port" mapstructure:"port"`
	Password  string `json:"password,omitempty" mapstructure:"password"`
	DB        int    `json:"db,omitempty" mapstructure:"db"`
	Namespace string `json:"namespace" mapstructure:"namespace"` // prefix for every key written
}

type RedisSentinelConfig struct {
	SentinelHost     string `json:"sentinel_host" mapstructure:"sentinel_host"`
	SentinelPort     int    `json:"sentinel_port" mapstructure:"sentinel_port"`
	SentinelUsername string `json:"sentinel_username,omitempty" mapstructure:"sentinel_username"`
	Password         string `json:"password,omitempty" mapstructure:"password"`
	MasterName       string `json:"master_name" mapstructure:"master_name"`
	DB               int    `json:"db,omitempty" mapstructure:"db"`
	Namespace        string `json:"namespace" mapstructure:"namespace"`
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *RedisSentinelConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.SentinelHost, c.SentinelPort)
}

// NewRedisClient connects to a single redis instance and pings it.
func NewRedisClient(config *RedisConfig) (*goredis.Client, error) {
	if config.Host == "" {
		return nil, fmt.Errorf("redis host is required")
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:        config.Addr(),
		Password:    config.Password,
		DB:          config.DB,
		DialTimeout: connectTimeout,
	})

	if err := ping(client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", config.Addr(), err)
	}

	slog.Info("Connected to Redis", "addr", config.Addr(), "db", config.DB)
	return client, nil
}

// NewRedisSentinelClient connects to the master named in config through a
// sentinel and pings it.
func NewRedisSentinelClient(config *RedisSentinelConfig) (*goredis.Client, error) {
	if config.MasterName == "" {
		return nil, fmt.Errorf("redis sentinel master name is required")
	}
	if config.SentinelHost == "" {
		return nil, fmt.Errorf("redis sentinel host is required")
	}

	client := goredis.NewFailoverClient(&goredis.FailoverOptions{
		MasterName:       config.MasterName,
		SentinelAddrs:    []string{config.Addr()},
		SentinelUsername: config.SentinelUsername,
		Password:         config.Password,
		DB:               config.DB,
		DialTimeout:      connectTimeout,
	})

	if err := ping(client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis through Sentinel at %s: %w", config.Addr(), err)
	}

	slog.Info("Connected to Redis through Sentinel", "sentinel", config.Addr(), "master", config.MasterName)
	return client, nil
}

func ping(client *goredis.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return client.Ping(ctx).Err()
}
