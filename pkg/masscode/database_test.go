package masscode

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDB = `{
	"folders": [
		{"id": "f1", "name": "Go", "index": 0, "parentId": null, "defaultLanguage": "go",
		 "isOpen": true, "isSystem": false, "createdAt": 1700000000000, "updatedAt": 1700000000001, "icon": "gopher"},
		{"id": "f2", "name": "Shell", "index": 1, "parentId": "f1", "defaultLanguage": "sh",
		 "isOpen": false, "isSystem": false, "createdAt": 1700000000000, "updatedAt": 1700000000000}
	],
	"tags": [
		{"id": "t1", "name": "scripts", "createdAt": 1, "updatedAt": 2},
		{"id": "t2", "name": "snippets", "createdAt": 1, "updatedAt": 2}
	],
	"snippets": [
		{"id": "s1", "name": "deploy", "description": null, "isDeleted": false, "isFavorites": true,
		 "folderId": "f2", "tagsIds": ["t1"], "createdAt": 5, "updatedAt": 6,
		 "content": [{"label": "Fragment 1", "language": "sh", "value": "make deploy"}]},
		{"id": "s2", "name": "http server", "description": "net/http", "isDeleted": true, "isFavorites": false,
		 "folderId": "f1", "tagsIds": [], "createdAt": 7, "updatedAt": 8, "content": []}
	]
}`

func TestDecodeDatabase(t *testing.T) {
	db, err := DecodeDatabase([]byte(sampleDB))
	require.NoError(t, err)

	require.Len(t, db.Folders, 2)
	require.Len(t, db.Tags, 2)
	require.Len(t, db.Snippets, 2)

	go1 := db.Folders["f1"]
	require.NotNil(t, go1)
	assert.Equal(t, "Go", go1.Name)
	assert.Nil(t, go1.ParentID)
	assert.Equal(t, "gopher", go1.AdditionalFields["icon"])
	require.NotNil(t, db.Folders["f2"].ParentID)
	assert.Equal(t, "f1", *db.Folders["f2"].ParentID)

	deploy := db.Snippets["s1"]
	assert.Equal(t, []string{"t1"}, deploy.TagsIDs)
	assert.Nil(t, deploy.Description)
	require.Len(t, deploy.Content, 1)
	assert.Equal(t, "make deploy", deploy.Content[0].Value)
	assert.Empty(t, deploy.AdditionalFields)

	docs := db.Documents(KindFolder)
	require.Len(t, docs, 2)
	assert.Equal(t, "gopher", docs["f1"]["icon"])
	assert.Equal(t, float64(1), docs["f2"]["index"])
	assert.Equal(t, []any{"t1"}, db.Documents(KindSnippet)["s1"]["tagsIds"])

	assert.Same(t, deploy, db.Record(KindSnippet, "s1"))
	assert.Nil(t, db.Record(KindSnippet, "missing"))
	assert.Nil(t, db.Record(Kind("bogus"), "s1"))
}

func TestDecodeDatabase_KeyedCollections(t *testing.T) {
	data := `{
		"folders": {"f1": {"id": "f1", "name": "Go"}},
		"tags": {"t9": {"name": "no id"}},
		"snippets": null
	}`
	db, err := DecodeDatabase([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, "Go", db.Folders["f1"].Name)
	require.Contains(t, db.Tags, "t9")
	assert.Equal(t, "t9", db.Documents(KindTag)["t9"]["id"])
	assert.Empty(t, db.Snippets)
	assert.NotNil(t, db.Documents(KindSnippet))
}

func TestDecodeDatabase_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: `{`},
		{name: "collection is a string", data: `{"folders": "x"}`},
		{name: "record without id", data: `{"tags": [{"name": "x"}]}`},
		{name: "duplicate id", data: `{"tags": [{"id": "a"}, {"id": "a"}]}`},
		{name: "wrong field type", data: `{"folders": [{"id": "f1", "index": "three"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDatabase([]byte(tt.data))
			require.Error(t, err)
		})
	}
}

func TestModelsForeignMembers(t *testing.T) {
	t.Run("marshal includes foreign members", func(t *testing.T) {
		tag := Tag{
			ID:               "t1",
			Name:             "scripts",
			AdditionalFields: map[string]any{"color": "red"},
		}
		data, err := json.Marshal(tag)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, "red", decoded["color"])
		assert.Equal(t, "scripts", decoded["name"])
	})

	t.Run("round-trip preserves all fields", func(t *testing.T) {
		original := `{"id":"s1","name":"n","description":"d","isDeleted":false,"isFavorites":true,` +
			`"folderId":"f1","tagsIds":["a"],"content":[],"createdAt":1,"updatedAt":2,"pinned":{"at":3}}`

		var snippet Snippet
		require.NoError(t, json.Unmarshal([]byte(original), &snippet))
		assert.Equal(t, map[string]any{"at": float64(3)}, snippet.AdditionalFields["pinned"])

		out, err := json.Marshal(snippet)
		require.NoError(t, err)
		assert.JSONEq(t, original, string(out))
	})

	t.Run("folder without extras", func(t *testing.T) {
		var folder Folder
		require.NoError(t, json.Unmarshal([]byte(`{"id":"f1","name":"Go","index":3}`), &folder))
		assert.Nil(t, folder.AdditionalFields)
		assert.Equal(t, 3, folder.Index)
	})
}

func TestParseKind(t *testing.T) {
	for input, want := range map[string]Kind{
		"folder": KindFolder, "Folders": KindFolder,
		"tag": KindTag, "tags": KindTag,
		" snippet ": KindSnippet, "SNIPPETS": KindSnippet,
	} {
		got, err := ParseKind(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseKind("notes")
	require.Error(t, err)
	assert.Equal(t, "snippets", KindSnippet.Plural())
}
