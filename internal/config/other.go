package config

import "fmt"

type RateLimits struct {
	Enabled bool
	Rate    float64
	Burst   int
}

func (r RateLimits) Validate() error {
	if !r.Enabled {
		return nil
	}
	if r.Rate <= 0 {
		return fmt.Errorf("rate limit (%v) needs to be greater than 0", r.Rate)
	}
	if r.Burst <= 0 {
		return fmt.Errorf("rate limit burst (%d) needs to be greater than 0", r.Burst)
	}
	return nil
}

type SentryConfig struct {
	Enabled     bool
	Dsn         RedactedString
	Environment string
	SampleRate  float64
}

type MonitoringConfig struct {
	Sentry SentryConfig
}
