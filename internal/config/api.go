package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const DefaultAPIBaseURL string = "http://localhost:8989/seniku/api/v1"
const apiVersionPath string = "/api/v1"
const apiPrefixPath string = "/seniku"

type APIConfig struct {
	BaseURL        *url.URL
	TimeoutSeconds int
	UserAgent      string
}

func (c *APIConfig) Validate() error {
	if c.BaseURL == nil {
		return fmt.Errorf("the api config is missing the base url of the backend")
	}
	if c.BaseURL.Scheme != "http" && c.BaseURL.Scheme != "https" {
		return fmt.Errorf("the api base url has an unsupported scheme %q", c.BaseURL.Scheme)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("api timeout seconds (%d) needs to be greater than 0", c.TimeoutSeconds)
	}
	return nil
}

func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// NormalizeBaseURL makes sure the base URL always ends with /seniku/api/v1.
// Trailing slashes are removed, a URL ending in /seniku only gets /api/v1 appended.
func NormalizeBaseURL(u *url.URL) *url.URL {
	if u == nil {
		return nil
	}
	output := *u
	path := strings.TrimRight(output.Path, "/")
	if !strings.HasSuffix(path, apiVersionPath) {
		if strings.HasSuffix(path, apiPrefixPath) {
			path = path + apiVersionPath
		} else {
			path = path + apiPrefixPath + apiVersionPath
		}
	}
	output.Path = path
	output.RawPath = ""
	return &output
}
