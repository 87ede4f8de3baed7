package redis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRedisConfigAddr(t *testing.T) {
	config := &RedisConfig{
		Host:      "localhost",
		Port:      6379,
		Password:  "secret",
		Namespace: "walver-webhooks",
	}

	require.Equal(t, "localhost:6379", config.Addr())
}

func TestRedisConfigFromJSON(t *testing.T) {
	var config RedisConfig
	err := json.Unmarshal([]byte(`{"host":"cache","port":6380,"db":2,"namespace":"hooks"}`), &config)
	require.NoError(t, err)

	require.Equal(t, "cache:6380", config.Addr())
	require.Equal(t, 2, config.DB)
	require.Equal(t, "hooks", config.Namespace)
	require.Empty(t, config.Password)
}

func TestRedisSentinelConfigAddr(t *testing.T) {
	config := &RedisSentinelConfig{
		SentinelHost:     "sentinel.internal",
		SentinelPort:     26379,
		MasterName:       "mymaster",
		SentinelUsername: "sentinel",
		Namespace:        "walver-webhooks",
	}

	require.Equal(t, "sentinel.internal:26379", config.Addr())
}

func TestNewRedisClientInvalidHost(t *testing.T) {
	config := &RedisConfig{
		Host:     "invalid-redis-host-that-does-not-exist",
		Port:     6379,
		Password: "",
	}

	client, err := NewRedisClient(config)
	require.Error(t, err)
	require.Nil(t, client)
	require.Contains(t, err.Error(), "failed to connect to Redis")
}

func TestNewRedisClientInvalidPort(t *testing.T) {
	config := &RedisConfig{
		Host:     "localhost",
		Port:     99999,
		Password: "",
	}

	client, err := NewRedisClient(config)
	require.Error(t, err)
	require.Nil(t, client)
	require.Contains(t, err.Error(), "failed to connect to Redis")
}

func TestNewRedisClientEmptyConfig(t *testing.T) {
	config := &RedisConfig{
		Host:     "",
		Port:     0,
		Password: "",
	}

	client, err := NewRedisClient(config)
	require.Error(t, err)
	require.Nil(t, client)
	require.Contains(t, err.Error(), "redis host is required")
}

func TestNewRedisSentinelClientInvalidHost(t *testing.T) {
	config := &RedisSentinelConfig{
		SentinelHost:     "invalid-sentinel-host-that-does-not-exist",
		SentinelPort:     26379,
		Password:         "",
		MasterName:       "mymaster",
		SentinelUsername: "",
	}

	client, err := NewRedisSentinelClient(config)
	require.Error(t, err)
	require.Nil(t, client)
	require.Contains(t, err.Error(), "failed to connect to Redis through Sentinel")
}

func TestNewRedisSentinelClientInvalidPort(t *testing.T) {
	config := &RedisSentinelConfig{
		SentinelHost:     "localhost",
		SentinelPort:     99999,
		Password:         "",
		MasterName:       "mymaster",
		SentinelUsername: "",
	}

	client, err := NewRedisSentinelClient(config)
	require.Error(t, err)
	require.Nil(t, client)
	require.Contains(t, err.Error(), "failed to connect to Redis through Sentinel")
}

func TestNewRedisSentinelClientEmptyMasterName(t *testing.T) {
	config := &RedisSentinelConfig{
		SentinelHost:     "localhost",
		SentinelPort:     26379,
		Password:         "",
		MasterName:       "",
		SentinelUsername: "",
	}

	client, err := NewRedisSentinelClient(config)
	require.Error(t, err)
	require.Nil(t, client)
	require.Contains(t, err.Error(), "master name is required")
}
