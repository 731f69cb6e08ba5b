package config

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getValidAPIConfig(t *testing.T) APIConfig {
	baseURL, err := url.Parse(DefaultAPIBaseURL)
	require.NoError(t, err)
	return APIConfig{BaseURL: baseURL, TimeoutSeconds: 30}
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := map[string]string{
		"http://localhost:8989":                 "http://localhost:8989/seniku/api/v1",
		"http://localhost:8989/":                "http://localhost:8989/seniku/api/v1",
		"https://school.example.org/seniku":     "https://school.example.org/seniku/api/v1",
		"https://school.example.org/seniku///":  "https://school.example.org/seniku/api/v1",
		"https://school.example.org/api/v1":     "https://school.example.org/api/v1",
		"https://school.example.org/x/api/v1/":  "https://school.example.org/x/api/v1",
		"http://localhost:8989/seniku/api/v1":   "http://localhost:8989/seniku/api/v1",
	}
	for input, expected := range tests {
		t.Run(input, func(t *testing.T) {
			u, err := url.Parse(input)
			require.NoError(t, err)
			assert.Equal(t, expected, NormalizeBaseURL(u).String())
		})
	}
}

func TestNormalizeBaseURLNil(t *testing.T) {
	assert.Nil(t, NormalizeBaseURL(nil))
}

func TestValidAPIConfig(t *testing.T) {
	config := getValidAPIConfig(t)

	assert.NoError(t, config.Validate())
	assert.Equal(t, float64(30), config.Timeout().Seconds())
}

func TestInvalidAPITimeout(t *testing.T) {
	config := getValidAPIConfig(t)
	config.TimeoutSeconds = 0

	err := config.Validate()

	assert.ErrorContains(t, err, "api timeout seconds (0) needs to be greater than 0")
}

func TestInvalidAPIScheme(t *testing.T) {
	config := getValidAPIConfig(t)
	config.BaseURL.Scheme = "ftp"

	assert.ErrorContains(t, config.Validate(), "unsupported scheme")
}
