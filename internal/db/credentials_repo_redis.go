package db

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/alif-arrizqy/allboom-app/internal/apierrors"
	"github.com/alif-arrizqy/allboom-app/internal/models"
	"github.com/redis/go-redis/v9"
)

// GetCredentials reads the credential record from redis, decrypting the tokens if necessary.
func (r RedisAdapter) GetCredentials(ctx context.Context) (models.Credentials, error) {
	raw, err := r.rdb.Get(ctx, r.credentialsKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Credentials{}, apierrors.ErrCredentialsNotFound
		}
		return models.Credentials{}, err
	}
	return decodeCredentials([]byte(raw), r.encryptor)
}

// SetCredentials writes the credential record to redis. The record never expires,
// it is only removed on logout or when the session cannot be refreshed anymore.
func (r RedisAdapter) SetCredentials(ctx context.Context, credentials models.Credentials) error {
	raw, err := encodeCredentials(credentials, r.encryptor)
	if err != nil {
		return err
	}
	slog.Debug(
		"CREDENTIALS STORE",
		"message",
		"saving credentials",
		"credentials",
		credentials,
		"backend",
		"redis",
	)
	return r.rdb.Set(ctx, r.credentialsKey(), string(raw), 0).Err()
}

// RemoveCredentials deletes the credential record, removing a missing record is not an error.
func (r RedisAdapter) RemoveCredentials(ctx context.Context) error {
	return r.rdb.Del(ctx, r.credentialsKey()).Err()
}

func encodeCredentials(credentials models.Credentials, enc models.Encryptor) ([]byte, error) {
	encCredentials, err := credentials.Encrypt(enc)
	if err != nil {
		return nil, err
	}
	return json.Marshal(encCredentials)
}

func decodeCredentials(raw []byte, enc models.Encryptor) (models.Credentials, error) {
	var output models.Credentials
	err := json.Unmarshal(raw, &output)
	if err != nil {
		return models.Credentials{}, errors.Join(apierrors.ErrCredentialsParse, err)
	}
	return output.Decrypt(enc)
}
