package db

import (
	"path/filepath"
	"testing"

	"github.com/alif-arrizqy/allboom-app/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCredentialsRepository(t *testing.T) {
	fileRepo, err := NewCredentialsRepository(
		config.SessionConfig{Store: config.SessionStoreFile, FilePath: filepath.Join(t.TempDir(), "s.json"), Key: "user"},
		config.RedisConfig{},
	)
	require.NoError(t, err)
	assert.IsType(t, &FileAdapter{}, fileRepo)

	redisRepo, err := NewCredentialsRepository(
		config.SessionConfig{
			Store: config.SessionStoreRedis,
			Key:   "user",
			TokenEncryption: config.TokenEncryptionConfig{
				Enabled:   true,
				SecretKey: "12345678901234567890123456789012",
			},
		},
		config.RedisConfig{Type: config.DBTypeRedisMock},
	)
	require.NoError(t, err)
	assert.IsType(t, &RedisAdapter{}, redisRepo)

	_, err = NewCredentialsRepository(config.SessionConfig{Store: "cookie"}, config.RedisConfig{})
	assert.Error(t, err)
}
