package config

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createConfigFile(fpath string) error {
	contents := `---
runningEnvironment: development
api:
  baseURL: https://seniku.example.org/
  timeoutSeconds: 15
session:
  store: redis
  key: user
redis:
  type: redis-mock
`
	return os.WriteFile(fpath, []byte(contents), 0666)
}

func createSecretFile(fpath string) error {
	contents := `---
session:
  tokenEncryption:
    enabled: true
    secretKey: secret-key-from-secret-file-3210
monitoring:
  sentry:
    dsn: dsn-from-secret-file
`
	return os.WriteFile(fpath, []byte(contents), 0666)
}

func TestReadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("CONFIG_LOCATION", tmpDir)
	require.NoError(t, createConfigFile(path.Join(tmpDir, "config.yaml")))
	require.NoError(t, createSecretFile(path.Join(tmpDir, "secret_config.yaml")))

	ch := NewConfigHandler("")
	config, err := ch.Config()

	require.NoError(t, err)
	assert.Equal(t, Development, config.RunningEnvironment)
	assert.Equal(t, "https://seniku.example.org/seniku/api/v1", config.API.BaseURL.String())
	assert.Equal(t, 15, config.API.TimeoutSeconds)
	assert.Equal(t, SessionStoreRedis, config.Session.Store)
	assert.Equal(t, DBTypeRedisMock, config.Redis.Type)
	assert.True(t, config.Session.TokenEncryption.Enabled)
	assert.Equal(t, RedactedString("secret-key-from-secret-file-3210"), config.Session.TokenEncryption.SecretKey)
	assert.Equal(t, RedactedString("dsn-from-secret-file"), config.Monitoring.Sentry.Dsn)
}

func TestReadConfigWithEnvVars(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("CONFIG_LOCATION", tmpDir)
	require.NoError(t, createConfigFile(path.Join(tmpDir, "config.yaml")))
	require.NoError(t, createSecretFile(path.Join(tmpDir, "secret_config.yaml")))
	t.Setenv("SENIKU_API_BASEURL", "http://localhost:9000/seniku")
	t.Setenv("SENIKU_SESSION_TOKENENCRYPTION_SECRETKEY", "token-encryption-key-12345678910")

	ch := NewConfigHandler("")
	config, err := ch.Config()

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/seniku/api/v1", config.API.BaseURL.String())
	assert.Equal(t, RedactedString("token-encryption-key-12345678910"), config.Session.TokenEncryption.SecretKey)
	assert.Equal(t, RedactedString("dsn-from-secret-file"), config.Monitoring.Sentry.Dsn)
}

func TestReadConfigDefaultsWithoutFiles(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("CONFIG_LOCATION", tmpDir)

	ch := NewConfigHandler("")
	config, err := ch.Config()

	require.NoError(t, err)
	assert.Equal(t, Production, config.RunningEnvironment)
	assert.Equal(t, DefaultAPIBaseURL, config.API.BaseURL.String())
	assert.Equal(t, 30, config.API.TimeoutSeconds)
	assert.Equal(t, SessionStoreFile, config.Session.Store)
	assert.Equal(t, path.Join(tmpDir, ".seniku", "session.json"), config.Session.FilePath)
	assert.Equal(t, DefaultSessionKey, config.Session.Key)
	assert.False(t, config.RateLimits.Enabled)
}

func TestReadExplicitConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	fpath := path.Join(tmpDir, "custom.yaml")
	require.NoError(t, createConfigFile(fpath))

	ch := NewConfigHandler(fpath)
	config, err := ch.Config()

	require.NoError(t, err)
	assert.Equal(t, 15, config.API.TimeoutSeconds)
	assert.False(t, config.Session.TokenEncryption.Enabled)
}

func TestReadInvalidConfigFails(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("CONFIG_LOCATION", tmpDir)
	t.Setenv("SENIKU_SESSION_STORE", "cookie")

	ch := NewConfigHandler("")
	_, err := ch.Config()

	assert.ErrorContains(t, err, "unknown session store \"cookie\"")
}
