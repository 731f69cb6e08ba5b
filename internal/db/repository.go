package db

import (
	"fmt"

	"github.com/alif-arrizqy/allboom-app/internal/config"
	"github.com/alif-arrizqy/allboom-app/internal/models"
)

// NewCredentialsRepository builds the credential store selected in the session configuration.
func NewCredentialsRepository(sessionConfig config.SessionConfig, redisConfig config.RedisConfig) (models.CredentialsRepository, error) {
	switch sessionConfig.Store {
	case config.SessionStoreFile:
		options := []FileAdapterOption{WithFilePath(sessionConfig.FilePath), WithFileKey(sessionConfig.Key)}
		if sessionConfig.TokenEncryption.Enabled {
			options = append(options, WithFileEncryption(string(sessionConfig.TokenEncryption.SecretKey)))
		}
		return NewFileAdapter(options...)
	case config.SessionStoreRedis:
		options := []RedisAdapterOption{WithRedisConfig(redisConfig), WithSessionKey(sessionConfig.Key)}
		if sessionConfig.TokenEncryption.Enabled {
			options = append(options, WithEncryption(string(sessionConfig.TokenEncryption.SecretKey)))
		}
		return NewRedisAdapter(options...)
	default:
		return nil, fmt.Errorf("unknown session store %q", sessionConfig.Store)
	}
}
