package main

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/rivo/tview"

	"github.com/robert-malhotra/go-masscode/pkg/masscode"
	"github.com/robert-malhotra/go-masscode/pkg/query"
)

// resultEntry is one row of the results list.
type resultEntry struct {
	ID       string
	Label    string
	Record   any
	Document query.Document
}

// buildResults pairs the matched documents with their typed records, ordered
// by id.
func buildResults(db *masscode.Database, kind masscode.Kind, docs map[string]query.Document) []resultEntry {
	entries := make([]resultEntry, 0, len(docs))
	for _, id := range slices.Sorted(maps.Keys(docs)) {
		var record any
		if db != nil {
			record = db.Record(kind, id)
		}
		entries = append(entries, resultEntry{
			ID:       id,
			Label:    resultLabel(docs[id], id),
			Record:   record,
			Document: docs[id],
		})
	}
	return entries
}

func resultLabel(doc query.Document, id string) string {
	name, _ := doc["name"].(string)
	if strings.TrimSpace(name) == "" {
		return id
	}
	if deleted, _ := doc["isDeleted"].(bool); deleted {
		name += " (trash)"
	}
	return tview.Escape(name)
}

// describeQuery validates query text for the status line. Blank text is
// valid and matches everything.
func describeQuery(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "[green]matches all records", true
	}
	expr, err := query.Parse(text)
	if err != nil {
		return "[red]" + tview.Escape(formatQueryError(err)), false
	}
	canonical, err := query.SerializeText(expr)
	if err != nil {
		return "[red]" + tview.Escape(err.Error()), false
	}
	return "[green]" + tview.Escape(canonical), true
}

func formatQueryError(err error) string {
	var syntaxErr *query.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Sprintf("col %d: %s", syntaxErr.Offset+1, syntaxErr.Msg)
	}
	return err.Error()
}

func resultsTitle(kind masscode.Kind, n int) string {
	return fmt.Sprintf("%s (%d)", strings.ToUpper(kind.Plural()[:1])+kind.Plural()[1:], n)
}
