// Package server parses API service flags and launches the service.
package server

import (
	"context"
	"flag"

	entrypoint "github.com/lumeapp/lume/internal/platform/cmd"
	server "github.com/lumeapp/lume/internal/services/api/app"
)

// Config holds API command configuration.
type Config struct {
	Port int `env:"LUME_API_PORT" envDefault:"8080"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The API HTTP server port")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the API HTTP service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceAPI, func(context.Context) error {
		return server.Run(ctx, cfg.Port)
	})
}
