package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func getValidConfig(t *testing.T) Config {
	return Config{
		RunningEnvironment: Production,
		API:                getValidAPIConfig(t),
		Session:            getValidSessionConfig(),
		Redis:              getValidRedisConfig(),
	}
}

func TestValidConfig(t *testing.T) {
	config := getValidConfig(t)

	err := config.Validate()

	assert.NoError(t, err)
}

func TestInvalidRunningEnvironment(t *testing.T) {
	config := getValidConfig(t)
	config.RunningEnvironment = "staging"

	assert.Error(t, config.Validate())
}

func TestInvalidAPIConfig(t *testing.T) {
	config := getValidConfig(t)
	config.API.BaseURL = nil

	assert.Error(t, config.Validate())
}

func TestInvalidSessionConfig(t *testing.T) {
	config := getValidConfig(t)
	config.Session.Key = ""

	assert.Error(t, config.Validate())
}

func TestRedisOnlyValidatedForRedisStore(t *testing.T) {
	config := getValidConfig(t)
	config.Redis.Type = "redis-mock"

	assert.NoError(t, config.Validate())

	config.Session.Store = SessionStoreRedis
	assert.Error(t, config.Validate())
}

func TestInvalidRateLimits(t *testing.T) {
	config := getValidConfig(t)
	config.RateLimits = RateLimits{Enabled: true, Rate: 0, Burst: 1}

	assert.ErrorContains(t, config.Validate(), "rate limit (0) needs to be greater than 0")
}
