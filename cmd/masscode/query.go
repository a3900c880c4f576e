package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/robert-malhotra/go-masscode/pkg/masscode"
	"github.com/robert-malhotra/go-masscode/pkg/query"
)

var errNoSelection = errors.New("select one of --folders, --tags, --snippets or --all")

func queryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "folders", Usage: "List folders"},
		&cli.BoolFlag{Name: "tags", Usage: "List tags"},
		&cli.BoolFlag{Name: "snippets", Usage: "List snippets"},
		&cli.BoolFlag{Name: "all", Usage: "Dump folders, tags and snippets"},
		&cli.StringSliceFlag{
			Name:    "query",
			Aliases: []string{"q"},
			Usage:   "Filter records; repeated queries are joined with &",
		},
		&cli.BoolFlag{Name: "id", Usage: "Print only the ids of matching records"},
		&cli.BoolFlag{Name: "content", Usage: "Print the content of the snippet when exactly one matches"},
		&cli.BoolFlag{
			Name:    "interactive",
			Aliases: []string{"i"},
			Usage:   "Prompt between batches of results",
		},
	}
}

// selectedKind returns the record kind chosen by flags, or "" for --all.
func selectedKind(cmd *cli.Command) (masscode.Kind, bool, error) {
	var (
		kind  masscode.Kind
		all   bool
		count int
	)
	for _, k := range masscode.Kinds {
		if cmd.Bool(k.Plural()) {
			kind = k
			count++
		}
	}
	if cmd.Bool("all") {
		all = true
		count++
	}
	switch count {
	case 0:
		return "", false, errNoSelection
	case 1:
		return kind, all, nil
	default:
		return "", false, fmt.Errorf("only one of --folders, --tags, --snippets or --all may be given")
	}
}

func (e *environment) queryAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() > 0 {
		return fmt.Errorf("unexpected argument %q", cmd.Args().First())
	}
	kind, all, err := selectedKind(cmd)
	if err != nil {
		return err
	}

	text, err := query.Combine("&", cmd.StringSlice("query")...)
	if err != nil {
		return err
	}
	out := cmd.Root().Writer

	if all {
		if text != "" {
			return errors.New("--all cannot be used with --query")
		}
		return e.dumpAll(ctx, out)
	}

	if cmd.Bool("id") {
		ids, err := e.client.IDs(ctx, kind, text)
		if err != nil {
			return err
		}
		return writeJSON(out, ids)
	}

	if cmd.Bool("content") {
		if kind != masscode.KindSnippet {
			return errors.New("--content requires --snippets")
		}
		snippets := []*masscode.Snippet{}
		for s, err := range e.client.Snippets(ctx, text) {
			if err != nil {
				return err
			}
			snippets = append(snippets, s)
		}
		if len(snippets) == 1 {
			return writeJSON(out, snippets[0].Content)
		}
		return writeJSON(out, snippets)
	}

	interactive := cmd.Bool("interactive")
	switch kind {
	case masscode.KindFolder:
		return printRecords(cmd, e.client.Folders(ctx, text), interactive)
	case masscode.KindTag:
		return printRecords(cmd, e.client.Tags(ctx, text), interactive)
	default:
		return printRecords(cmd, e.client.Snippets(ctx, text), interactive)
	}
}

func (e *environment) dumpAll(ctx context.Context, out io.Writer) error {
	db, err := e.store.Load(ctx)
	if err != nil {
		return err
	}
	return writeJSON(out, newDatabaseDump(db))
}
