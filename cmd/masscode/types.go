package main

import (
	"maps"
	"slices"

	"github.com/robert-malhotra/go-masscode/pkg/masscode"
	"github.com/robert-malhotra/go-masscode/pkg/query"
)

type databaseDump struct {
	Folders  []*masscode.Folder  `json:"folders"`
	Tags     []*masscode.Tag     `json:"tags"`
	Snippets []*masscode.Snippet `json:"snippets"`
}

func newDatabaseDump(db *masscode.Database) *databaseDump {
	return &databaseDump{
		Folders:  sortedByID(db.Folders),
		Tags:     sortedByID(db.Tags),
		Snippets: sortedByID(db.Snippets),
	}
}

func sortedByID[T any](records map[string]*T) []*T {
	out := make([]*T, 0, len(records))
	for _, id := range slices.Sorted(maps.Keys(records)) {
		out = append(out, records[id])
	}
	return out
}

type parseResult struct {
	Query     string           `json:"query"`
	Canonical string           `json:"canonical"`
	Tree      query.Expression `json:"tree"`
}
