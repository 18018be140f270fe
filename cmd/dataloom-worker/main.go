package main

import (
	"context"
	"os"
	"runtime"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"

	"github.com/dataloom/dataloom/pkg/cmd"
	"github.com/dataloom/dataloom/pkg/engine"
	"github.com/dataloom/dataloom/pkg/log"
	"github.com/dataloom/dataloom/pkg/otelhelper"
)

func main() {
	logger := log.WithModule("worker")

	command := &cli.Command{
		Name:                  "dataloom-worker",
		Usage:                 "Execute a stored data integration project",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "project-id",
				Usage:    "ID of the project to execute",
				Required: true,
				Sources:  cli.EnvVars("PROJECT_ID"),
			},
			&cli.StringFlag{
				Name:    "node",
				Usage:   "Execute only this node and its upstream dependencies",
				Sources: cli.EnvVars("NODE_ID"),
			},
			&cli.BoolFlag{
				Name:    "sample",
				Usage:   "Run with bounded preview data",
				Sources: cli.EnvVars("SAMPLE"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for project persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS"),
			},
			&cli.StringFlag{
				Name:     "plugins-path",
				Usage:    "Path to the directory containing node plugins",
				Value:    "",
				Required: false,
				Sources:  cli.EnvVars("PLUGINS_PATH"),
			},
			&cli.IntFlag{
				Name:    "pool-size",
				Usage:   "Worker pool size for blocking nodes",
				Value:   runtime.NumCPU(),
				Sources: cli.EnvVars("POOL_SIZE"),
			},
			&cli.StringFlag{
				Name:    "user-id",
				Usage:   "User the execution acts on behalf of",
				Sources: cli.EnvVars("USER_ID"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			workerID := "worker-" + uuid.New().String()[:8]
			logger = logger.With("worker_id", workerID)

			logger.InfoContext(ctx, "Initializing Dataloom worker")

			if _, err := otelhelper.NewTracer(ctx, "dataloom-worker"); err != nil {
				logger.WarnContext(ctx, "Tracing disabled", "error", err)
			}

			registry := cmd.NewRegistry(ctx, logger, command.String("plugins-path"))
			store := cmd.NewPersistence(command.String("database-url"))

			defer func() {
				if err := store.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus, err := cmd.NewEventBus(command.String("event-bus"), logger)
			if err != nil {
				return err
			}

			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			pool := engine.NewPool(command.Int("pool-size"))
			defer pool.Close()

			runner := NewRunner(logger, store, registry, eventBus, pool)

			return runner.Run(ctx, RunRequest{
				ProjectID: command.String("project-id"),
				NodeID:    command.String("node"),
				Sample:    command.Bool("sample"),
				UserID:    command.String("user-id"),
			})
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
