package main

import (
	"github.com/spf13/cobra"
)

// effectiveConfig is the printable form of the configuration, secrets stay redacted.
type effectiveConfig struct {
	RunningEnvironment string `yaml:"runningEnvironment" json:"runningEnvironment"`
	DebugMode          bool   `yaml:"debugMode" json:"debugMode"`
	API                struct {
		BaseURL        string `yaml:"baseURL" json:"baseURL"`
		TimeoutSeconds int    `yaml:"timeoutSeconds" json:"timeoutSeconds"`
		UserAgent      string `yaml:"userAgent" json:"userAgent"`
	} `yaml:"api" json:"api"`
	Session struct {
		Store           string `yaml:"store" json:"store"`
		FilePath        string `yaml:"filePath,omitempty" json:"filePath,omitempty"`
		Key             string `yaml:"key" json:"key"`
		TokenEncryption struct {
			Enabled   bool   `yaml:"enabled" json:"enabled"`
			SecretKey string `yaml:"secretKey" json:"secretKey"`
		} `yaml:"tokenEncryption" json:"tokenEncryption"`
	} `yaml:"session" json:"session"`
	Redis struct {
		Type       string   `yaml:"type" json:"type"`
		Addresses  []string `yaml:"addresses" json:"addresses"`
		IsSentinel bool     `yaml:"isSentinel" json:"isSentinel"`
		Password   string   `yaml:"password" json:"password"`
		MasterName string   `yaml:"masterName,omitempty" json:"masterName,omitempty"`
		DBIndex    int      `yaml:"dbIndex" json:"dbIndex"`
	} `yaml:"redis" json:"redis"`
	RateLimits struct {
		Enabled bool    `yaml:"enabled" json:"enabled"`
		Rate    float64 `yaml:"rate" json:"rate"`
		Burst   int     `yaml:"burst" json:"burst"`
	} `yaml:"rateLimits" json:"rateLimits"`
	Sentry struct {
		Enabled     bool    `yaml:"enabled" json:"enabled"`
		Dsn         string  `yaml:"dsn" json:"dsn"`
		Environment string  `yaml:"environment" json:"environment"`
		SampleRate  float64 `yaml:"sampleRate" json:"sampleRate"`
	} `yaml:"sentry" json:"sentry"`
}

func (a *app) effectiveConfig() effectiveConfig {
	cfg := a.config
	output := effectiveConfig{RunningEnvironment: string(cfg.RunningEnvironment), DebugMode: cfg.DebugMode}
	if cfg.API.BaseURL != nil {
		output.API.BaseURL = cfg.API.BaseURL.String()
	}
	output.API.TimeoutSeconds = cfg.API.TimeoutSeconds
	output.API.UserAgent = cfg.API.UserAgent
	output.Session.Store = cfg.Session.Store
	output.Session.FilePath = cfg.Session.FilePath
	output.Session.Key = cfg.Session.Key
	output.Session.TokenEncryption.Enabled = cfg.Session.TokenEncryption.Enabled
	output.Session.TokenEncryption.SecretKey = cfg.Session.TokenEncryption.SecretKey.String()
	output.Redis.Type = cfg.Redis.Type
	output.Redis.Addresses = cfg.Redis.Addresses
	output.Redis.IsSentinel = cfg.Redis.IsSentinel
	output.Redis.Password = cfg.Redis.Password.String()
	output.Redis.MasterName = cfg.Redis.MasterName
	output.Redis.DBIndex = cfg.Redis.DBIndex
	output.RateLimits.Enabled = cfg.RateLimits.Enabled
	output.RateLimits.Rate = cfg.RateLimits.Rate
	output.RateLimits.Burst = cfg.RateLimits.Burst
	output.Sentry.Enabled = cfg.Monitoring.Sentry.Enabled
	output.Sentry.Dsn = cfg.Monitoring.Sentry.Dsn.String()
	output.Sentry.Environment = cfg.Monitoring.Sentry.Environment
	output.Sentry.SampleRate = cfg.Monitoring.Sentry.SampleRate
	return output
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "view",
		Short: "Print the effective configuration with secrets redacted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("output") {
				a.output = outputYAML
			}
			return a.print(a.effectiveConfig())
		},
	})
	return cmd
}
