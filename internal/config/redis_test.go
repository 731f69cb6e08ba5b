package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func getValidRedisConfig() RedisConfig {
	return RedisConfig{
		Type:      "redis",
		Addresses: []string{"localhost:6379"},
	}
}

func TestValidRedisConfig(t *testing.T) {
	config := getValidRedisConfig()

	err := config.Validate(Production)

	assert.NoError(t, err)
}

func TestInvalidRedisType(t *testing.T) {
	config := getValidRedisConfig()
	config.Type = "redis-mock"

	err := config.Validate(Production)

	assert.ErrorContains(t, err, "redis type cannot be \"redis-mock\" in production")
}

func TestRedisMockAllowedInDevelopment(t *testing.T) {
	config := getValidRedisConfig()
	config.Type = "redis-mock"

	assert.NoError(t, config.Validate(Development))
}

func TestRedisSentinelNeedsMasterName(t *testing.T) {
	config := getValidRedisConfig()
	config.IsSentinel = true

	assert.ErrorContains(t, config.Validate(Production), "master name")
}

func TestUnknownRedisType(t *testing.T) {
	config := getValidRedisConfig()
	config.Type = "memcached"

	assert.ErrorContains(t, config.Validate(Development), "unknown redis type \"memcached\"")
}

func TestRedisNeedsAddress(t *testing.T) {
	config := getValidRedisConfig()
	config.Addresses = nil

	assert.ErrorContains(t, config.Validate(Production), "at least one address")
}
