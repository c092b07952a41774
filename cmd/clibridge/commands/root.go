package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/clibridge/internal/app"
	"github.com/florianilch/clibridge/internal/observability"
)

// Execute runs the root command with the given context and arguments.
func Execute(ctx context.Context, args []string, version, commit string) error {
	cmd := &cli.Command{
		Name:    "clibridge",
		Usage:   "Anthropic and OpenAI API bridge for command-line inference tools",
		Version: fmt.Sprintf("%s (%s)", version, commit),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a TOML or YAML config file",
				Sources: cli.EnvVars("CLIBRIDGE_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug|info|warn|error)",
				Value: slog.LevelInfo.String(),
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "log format (auto|text|json)",
				Value: "auto",
			},
		},
		Commands: []*cli.Command{
			proxyStartCommand(),
		},
	}

	return cmd.Run(ctx, args)
}

func proxyStartCommand() *cli.Command {
	return &cli.Command{
		Name:  "start",
		Usage: "Starts the bridge",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "listen host",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "listen port (also GEMINI_BRIDGE_PORT)",
			},
		},
		Action: proxyStartAction,
	}
}

func proxyStartAction(ctx context.Context, cmd *cli.Command) (err error) {
	cfg, err := loadConfig(cmd.String("config"), cmd, os.Environ)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return err
	}

	// Set up observability before creating app
	shutdownTelemetry, err := observability.Instrument(ctx, observability.Options{
		Level:  level,
		Format: cfg.Log.Format,
		Telemetry: observability.TelemetryOptions{
			Exporter:    cfg.Telemetry.Exporter,
			Endpoint:    cfg.Telemetry.Endpoint,
			Insecure:    cfg.Telemetry.Insecure,
			ServiceName: cmd.Root().Name,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to set up observability layer: %w", err)
	}
	defer func() {
		// Flush exported logs even when the signal context is already cancelled
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		err = errors.Join(err, shutdownTelemetry(flushCtx))
	}()

	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}

	slog.InfoContext(ctx, "starting", "addr", cfg.Server.Addr())

	if err := application.Start(ctx); err != nil {
		return fmt.Errorf("app failed to start: %w", err)
	}

	slog.InfoContext(ctx, "stopped gracefully")

	return nil
}
