package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/alif-arrizqy/allboom-app/internal/config"
	"github.com/alif-arrizqy/allboom-app/internal/services"
	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var errNotLoggedIn = fmt.Errorf("you are not logged in, run `seniku login` first")

const (
	outputJSON string = "json"
	outputYAML string = "yaml"
)

// app holds the state shared by all commands of one invocation.
type app struct {
	configFile string
	debug      bool
	output     string

	out     io.Writer
	handler *config.ConfigHandler
	config  config.Config
	api     *services.API
}

// setup loads the configuration and builds the API client, it runs before every command.
func (a *app) setup(cmd *cobra.Command) error {
	a.out = cmd.OutOrStdout()
	a.handler = config.NewConfigHandler(a.configFile)
	cfg, err := a.handler.Config()
	if err != nil {
		slog.Error("loading the configuration failed", "error", err)
		return err
	}
	a.config = cfg
	a.applyLogLevel(cfg)
	slog.Debug("loaded config", "config", cfg)

	if cfg.Monitoring.Sentry.Enabled {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              string(cfg.Monitoring.Sentry.Dsn),
			TracesSampleRate: cfg.Monitoring.Sentry.SampleRate,
			Environment:      cfg.Monitoring.Sentry.Environment,
		})
		if err != nil {
			slog.Error("sentry initialization failed", "error", err)
		} else {
			cmd.SetContext(sentry.SetHubOnContext(cmd.Context(), sentry.CurrentHub().Clone()))
		}
	}

	a.api, err = services.NewAPI(
		services.WithConfig(cfg),
		services.WithLogoutHandler(a.onLogout),
	)
	if err != nil {
		slog.Error("api client initialization failed", "error", err)
		return err
	}
	return nil
}

func (a *app) applyLogLevel(cfg config.Config) {
	if a.debug || cfg.DebugMode {
		logLevel.Set(slog.LevelDebug)
		return
	}
	logLevel.Set(slog.LevelWarn)
}

// onLogout plays the role of the redirect to the login page.
func (a *app) onLogout(ctx context.Context) {
	fmt.Fprintln(a.out, "Session ended, log in again with `seniku login`.")
}

func (a *app) requireLogin(ctx context.Context) error {
	if !a.api.IsAuthenticated(ctx) {
		return errNotLoggedIn
	}
	return nil
}

// print writes v in the selected output format.
func (a *app) print(v any) error {
	switch a.output {
	case outputYAML:
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	case outputJSON, "":
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q (must be one of json, yaml)", a.output)
	}
}
