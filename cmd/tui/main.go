package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/robert-malhotra/go-masscode/pkg/client"
	"github.com/robert-malhotra/go-masscode/pkg/config"
	"github.com/robert-malhotra/go-masscode/pkg/masscode"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &cli.Command{
		Name:  "masscode-tui",
		Usage: "Browse a massCode snippet database interactively",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to a masscode.yaml config file"},
			&cli.StringFlag{Name: "appdata", Usage: "massCode settings directory holding v2/preferences.json"},
			&cli.StringFlag{Name: "db", Usage: "Path to db.json, bypassing preferences.json"},
			&cli.StringFlag{Name: "log-file", Usage: "Write logs to this file instead of discarding them"},
		},
		Action: run,
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}
	if cmd.IsSet("appdata") {
		cfg.AppDataPath = cmd.String("appdata")
	}
	if cmd.IsSet("db") {
		cfg.DBPath = cmd.String("db")
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	// The terminal belongs to the UI.
	logger.SetOutput(io.Discard)
	if path := cmd.String("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger.SetOutput(f)
	}

	store := masscode.NewStore(
		masscode.WithAppDataPath(cfg.AppDataPath),
		masscode.WithDatabasePath(cfg.DBPath),
		masscode.WithLogger(logger),
	)
	c, err := client.NewClient(store, client.WithLogger(logger), client.WithWorkers(cfg.Workers))
	if err != nil {
		return err
	}

	tui := NewTUI(ctx, c, store, logger)
	go func() {
		<-ctx.Done()
		tui.Stop()
	}()
	go func() {
		err := store.Watch(ctx, tui.onDatabaseChanged)
		if err != nil {
			logger.WithError(err).Warn("live reload disabled")
		}
	}()

	return tui.Run()
}
