package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-masscode/pkg/masscode"
	"github.com/robert-malhotra/go-masscode/pkg/query"
)

const cliDB = `{
	"folders": [
		{"id": "f1", "name": "go", "index": 0},
		{"id": "f2", "name": "git", "index": 1},
		{"id": "f3", "name": "shell", "index": 2}
	],
	"tags": [{"id": "t1", "name": "ops"}],
	"snippets": [
		{"id": "s1", "name": "deploy", "folderId": "f3", "tagsIds": ["t1"], "isDeleted": false,
		 "content": [{"label": "Fragment 1", "language": "sh", "value": "make deploy"}]},
		{"id": "s2", "name": "rebase", "folderId": "f2", "tagsIds": [], "isDeleted": true, "content": []}
	]
}`

func newTestFs(t *testing.T) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/data/db.json", []byte(cliDB), 0o644))
	return fsys
}

func runApp(t *testing.T, fsys afero.Fs, args ...string) (string, error) {
	t.Helper()
	app := newApp(fsys)
	var out, errOut bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &errOut
	app.Reader = strings.NewReader("")
	err := app.Run(context.Background(), append([]string{"masscode"}, args...))
	return out.String(), err
}

func decodeNames(t *testing.T, out string) []string {
	t.Helper()
	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &records), out)
	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, r["name"].(string))
	}
	return names
}

func TestQueryCommand_Records(t *testing.T) {
	fsys := newTestFs(t)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "folders by prefix", args: []string{"--folders", "--query", "name @SW g"}, want: []string{"go", "git"}},
		{name: "all folders", args: []string{"--folders"}, want: []string{"go", "git", "shell"}},
		{name: "repeated queries are joined", args: []string{"--folders", "-q", "name @SW g", "-q", "index > 0"}, want: []string{"git"}},
		{name: "tags", args: []string{"--tags", "-q", "name == ops"}, want: []string{"ops"}},
		{name: "snippets with boolean", args: []string{"--snippets", "-q", "isDeleted == true"}, want: []string{"rebase"}},
		{name: "no matches", args: []string{"--snippets", "-q", "name == nothing"}, want: []string{}},
		{name: "parallel evaluation", args: []string{"--folders", "--workers", "4", "-q", "~ name == go"}, want: []string{"git", "shell"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runApp(t, fsys, append([]string{"--db", "/data/db.json"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, decodeNames(t, out))
		})
	}
}

func TestQueryCommand_IDs(t *testing.T) {
	out, err := runApp(t, newTestFs(t), "--db", "/data/db.json", "--folders", "--id", "-q", "name @OO [go, shell]")
	require.NoError(t, err)

	var ids []string
	require.NoError(t, json.Unmarshal([]byte(out), &ids))
	assert.Equal(t, []string{"f1", "f3"}, ids)
}

func TestQueryCommand_Content(t *testing.T) {
	fsys := newTestFs(t)

	out, err := runApp(t, fsys, "--db", "/data/db.json", "--snippets", "--content", "-q", "name == deploy")
	require.NoError(t, err)
	var content []masscode.Content
	require.NoError(t, json.Unmarshal([]byte(out), &content))
	require.Len(t, content, 1)
	assert.Equal(t, "make deploy", content[0].Value)

	out, err = runApp(t, fsys, "--db", "/data/db.json", "--snippets", "--content")
	require.NoError(t, err)
	assert.Equal(t, []string{"deploy", "rebase"}, decodeNames(t, out))

	_, err = runApp(t, fsys, "--db", "/data/db.json", "--folders", "--content")
	require.Error(t, err)
}

func TestQueryCommand_All(t *testing.T) {
	fsys := newTestFs(t)

	out, err := runApp(t, fsys, "--db", "/data/db.json", "--all")
	require.NoError(t, err)
	var dump map[string][]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &dump))
	assert.Len(t, dump["folders"], 3)
	assert.Len(t, dump["tags"], 1)
	assert.Len(t, dump["snippets"], 2)
	assert.Equal(t, "f1", dump["folders"][0]["id"])

	_, err = runApp(t, fsys, "--db", "/data/db.json", "--all", "-q", "name == go")
	require.EqualError(t, err, "--all cannot be used with --query")
}

func TestQueryCommand_Errors(t *testing.T) {
	fsys := newTestFs(t)

	_, err := runApp(t, fsys, "--db", "/data/db.json")
	require.ErrorIs(t, err, errNoSelection)

	_, err = runApp(t, fsys, "--db", "/data/db.json", "--folders", "--tags")
	require.Error(t, err)

	_, err = runApp(t, fsys, "--db", "/data/db.json", "--folders", "-q", "name @SW")
	var syntaxErr *query.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)

	_, err = runApp(t, fsys, "--db", "/missing/db.json", "--folders")
	require.ErrorIs(t, err, masscode.ErrDatabaseNotFound)

	_, err = runApp(t, fsys, "--db", "/data/db.json", "--log-level", "loud", "--folders")
	require.Error(t, err)
}

func TestQueryCommand_ConfigFile(t *testing.T) {
	fsys := newTestFs(t)
	require.NoError(t, afero.WriteFile(fsys, "/etc/mc.yaml", []byte("db: /data/db.json\nworkers: 2\n"), 0o644))

	out, err := runApp(t, fsys, "--config", "/etc/mc.yaml", "--tags")
	require.NoError(t, err)
	assert.Equal(t, []string{"ops"}, decodeNames(t, out))

	_, err = runApp(t, fsys, "--config", "/etc/missing.yaml", "--tags")
	require.Error(t, err)
}

func TestQueryCommand_AppData(t *testing.T) {
	fsys := newTestFs(t)
	require.NoError(t, afero.WriteFile(fsys, "/appdata/v2/preferences.json", []byte(`{"storagePath": "/data"}`), 0o644))

	out, err := runApp(t, fsys, "--appdata", "/appdata", "--snippets", "-q", "folderId == f3")
	require.NoError(t, err)
	assert.Equal(t, []string{"deploy"}, decodeNames(t, out))
}

func TestParseCommand(t *testing.T) {
	out, err := runApp(t, afero.NewMemMapFs(), "parse", "(name @SW s) & (~ isDeleted == true)")
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "(name @SW s & isDeleted != true)", result["canonical"])

	tree, ok := result["tree"].(map[string]any)
	require.True(t, ok)
	and, ok := tree["and"].([]any)
	require.True(t, ok)
	require.Len(t, and, 2)
	assert.Equal(t, map[string]any{"field": "name", "operator": "StartsWith", "values": []any{"s"}}, and[0])

	_, err = runApp(t, afero.NewMemMapFs(), "parse")
	require.Error(t, err)
	_, err = runApp(t, afero.NewMemMapFs(), "parse", "name ~~ x")
	require.Error(t, err)
}

func TestQueryCommand_ListWithCommas(t *testing.T) {
	out, err := runApp(t, newTestFs(t), "--db", "/data/db.json", "--folders", "-q", "name @OO [git, shell]", "-q", "index >= 1")
	require.NoError(t, err)
	assert.Equal(t, []string{"git", "shell"}, decodeNames(t, out))
}
