package config

import "fmt"

const (
	SessionStoreFile  string = "file"
	SessionStoreRedis string = "redis"
)

// DefaultSessionKey is the well known key the credential record is stored under.
const DefaultSessionKey string = "user"

type TokenEncryptionConfig struct {
	Enabled   bool
	SecretKey RedactedString
}

type SessionConfig struct {
	Store           string
	FilePath        string
	Key             string
	TokenEncryption TokenEncryptionConfig
}

func (c *SessionConfig) Validate() error {
	switch c.Store {
	case SessionStoreFile:
		if c.FilePath == "" {
			return fmt.Errorf("the session file path cannot be empty when using the %q store", SessionStoreFile)
		}
	case SessionStoreRedis:
	default:
		return fmt.Errorf("unknown session store %q (must be one of file, redis)", c.Store)
	}
	if c.Key == "" {
		return fmt.Errorf("the session key cannot be empty")
	}
	if c.TokenEncryption.Enabled && len(c.TokenEncryption.SecretKey) != 32 {
		return fmt.Errorf(
			"token encryption key has to be 32 bytes long, the provided one is %d long",
			len(c.TokenEncryption.SecretKey),
		)
	}
	return nil
}
