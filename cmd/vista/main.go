// README: Entry point; loads config, wires providers and runs the CLI commands or the HTTP API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"vista/internal/ai"
	"vista/internal/config"
	"vista/internal/maps"
)

func main() {
	app := &cli.App{
		Name:  "vista",
		Usage: "AI tour guide: destination ideas, walking routes and photo narration",
		Commands: []*cli.Command{
			recommendCommand(),
			routeCommand(),
			tourCommand(),
			describeCommand(),
			geocodeCommand(),
			serveCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// env is what every command needs: configuration and a logger.
type env struct {
	cfg    config.Config
	logger *zap.Logger
}

func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: logger}, nil
}

func (e *env) close() {
	_ = e.logger.Sync()
}

// provider builds the configured generation provider.
func (e *env) provider(ctx context.Context) (ai.Provider, error) {
	if err := e.cfg.RequireGeneration(); err != nil {
		return nil, err
	}
	switch e.cfg.AI.Provider {
	case config.ProviderGemini:
		return ai.NewGeminiProvider(ctx, e.cfg.AI.Gemini.APIKey, e.cfg.AI.Gemini.Model, e.logger)
	default:
		return ai.NewQwenClient(e.cfg.AI.Qwen, e.logger)
	}
}

func (e *env) routes() (*maps.RouteService, error) {
	if err := e.cfg.RequireMaps(); err != nil {
		return nil, err
	}
	return maps.NewRouteService(e.cfg.Maps.APIKey, e.logger)
}
