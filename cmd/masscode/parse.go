package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/robert-malhotra/go-masscode/pkg/query"
)

func newParseCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Parse a query and print its canonical form and tree",
		ArgsUsage: "<query>",
		Action:    parseAction,
	}
}

func parseAction(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("expected a query argument")
	}
	text := strings.Join(cmd.Args().Slice(), " ")

	expr, err := query.Parse(text)
	if err != nil {
		return err
	}
	canonical, err := query.SerializeText(expr)
	if err != nil {
		return err
	}
	return writeJSON(cmd.Root().Writer, parseResult{
		Query:     text,
		Canonical: canonical,
		Tree:      expr,
	})
}
