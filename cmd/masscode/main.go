package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to a masscode.yaml config file",
	}
	appDataFlag = &cli.StringFlag{
		Name:  "appdata",
		Usage: "massCode settings directory holding v2/preferences.json",
	}
	dbFlag = &cli.StringFlag{
		Name:  "db",
		Usage: "Path to db.json, bypassing preferences.json",
	}
	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level (trace, debug, info, warn, error)",
	}
	logFormatFlag = &cli.StringFlag{
		Name:  "log-format",
		Usage: "Log format (text or json)",
	}
	workersFlag = &cli.IntFlag{
		Name:  "workers",
		Usage: "Evaluate queries across this many goroutines",
	}
)

func main() {
	cmd := newApp(afero.NewOsFs())
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(fsys afero.Fs) *cli.Command {
	env := &environment{fs: fsys}
	return &cli.Command{
		Name:      "masscode",
		Usage:     "Query a massCode snippet database",
		UsageText: "masscode (--folders|--tags|--snippets|--all) [--query q]... [--id] [--content]",
		Writer:    os.Stdout,
		Reader:    os.Stdin,
		ErrWriter: os.Stderr,
		Flags: append([]cli.Flag{
			configFlag, appDataFlag, dbFlag, logLevelFlag, logFormatFlag, workersFlag,
		}, queryFlags()...),
		Before: env.before,
		Action: env.queryAction,
		Commands: []*cli.Command{
			newParseCommand(),
		},
		// Queries contain commas inside value lists.
		DisableSliceFlagSeparator: true,
	}
}
