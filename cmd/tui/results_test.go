package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-masscode/pkg/masscode"
	"github.com/robert-malhotra/go-masscode/pkg/query"
)

func TestBuildResults(t *testing.T) {
	db, err := masscode.DecodeDatabase([]byte(`{
		"snippets": [
			{"id": "b", "name": "rebase", "isDeleted": true},
			{"id": "a", "name": "deploy"},
			{"id": "c", "name": ""}
		]
	}`))
	require.NoError(t, err)

	entries := buildResults(db, masscode.KindSnippet, db.Documents(masscode.KindSnippet))
	require.Len(t, entries, 3)

	assert.Equal(t, "a", entries[0].ID)
	assert.Equal(t, "deploy", entries[0].Label)
	assert.Same(t, db.Snippets["a"], entries[0].Record)
	assert.Equal(t, "rebase (trash)", entries[1].Label)
	assert.Equal(t, "c", entries[2].Label)

	assert.Empty(t, buildResults(nil, masscode.KindTag, nil))
}

func TestDescribeQuery(t *testing.T) {
	tests := []struct {
		text   string
		want   string
		wantOK bool
	}{
		{text: "", want: "[green]matches all records", wantOK: true},
		{text: "(name @SW s)", want: "[green]name @SW s", wantOK: true},
		{text: "(a == 1) & (b != 2)", want: "[green](a == 1 & b != 2)", wantOK: true},
		{text: "name ==", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := describeQuery(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			} else {
				assert.Contains(t, got, "[red]col ")
			}
		})
	}
}

func TestFormatQueryError(t *testing.T) {
	_, err := query.Parse("name @ZZ x")
	require.Error(t, err)
	assert.Equal(t, "col 6: unknown operator", formatQueryError(err))
}

func TestResultsTitle(t *testing.T) {
	assert.Equal(t, "Folders (3)", resultsTitle(masscode.KindFolder, 3))
}
