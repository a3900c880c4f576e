package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"

	"github.com/robert-malhotra/go-masscode/pkg/client"
	"github.com/robert-malhotra/go-masscode/pkg/config"
	"github.com/robert-malhotra/go-masscode/pkg/masscode"
)

// environment carries the objects built from configuration before an action
// runs.
type environment struct {
	fs     afero.Fs
	cfg    *config.Config
	logger *logrus.Logger
	store  *masscode.Store
	client *client.Client
}

// before loads configuration, applies flags on top of it and opens the store.
func (e *environment) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := config.Load(cmd.String(configFlag.Name), config.WithFs(e.fs))
	if err != nil {
		return ctx, err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return ctx, err
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return ctx, err
	}
	logger.SetOutput(cmd.Root().ErrWriter)
	if cfg.File != "" {
		logger.WithField("file", cfg.File).Debug("loaded config")
	}

	e.cfg = cfg
	e.logger = logger
	e.store = masscode.NewStore(
		masscode.WithFs(e.fs),
		masscode.WithAppDataPath(cfg.AppDataPath),
		masscode.WithDatabasePath(cfg.DBPath),
		masscode.WithLogger(logger),
	)
	e.client, err = client.NewClient(e.store,
		client.WithLogger(logger),
		client.WithWorkers(cfg.Workers),
	)
	return ctx, err
}

func applyFlags(cmd *cli.Command, cfg *config.Config) {
	if cmd.IsSet(appDataFlag.Name) {
		cfg.AppDataPath = cmd.String(appDataFlag.Name)
	}
	if cmd.IsSet(dbFlag.Name) {
		cfg.DBPath = cmd.String(dbFlag.Name)
	}
	if cmd.IsSet(logLevelFlag.Name) {
		cfg.LogLevel = cmd.String(logLevelFlag.Name)
	}
	if cmd.IsSet(logFormatFlag.Name) {
		cfg.LogFormat = cmd.String(logFormatFlag.Name)
	}
	if cmd.IsSet(workersFlag.Name) {
		cfg.Workers = cmd.Int(workersFlag.Name)
	}
}
