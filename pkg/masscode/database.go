package masscode

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/robert-malhotra/go-masscode/pkg/query"
)

// Database is one decoded snapshot of db.json.
//
// Every collection is available both as typed models and as query documents
// holding the raw decoded JSON of each record, keyed by record id.
type Database struct {
	Folders  map[string]*Folder
	Tags     map[string]*Tag
	Snippets map[string]*Snippet

	documents map[Kind]map[string]query.Document
}

// Documents returns the query view of one collection. The map is shared with
// the database and must not be modified.
func (db *Database) Documents(kind Kind) map[string]query.Document {
	if db == nil {
		return nil
	}
	return db.documents[kind]
}

// Record returns the typed model for id, or nil when there is none.
func (db *Database) Record(kind Kind, id string) any {
	if db == nil {
		return nil
	}
	switch kind {
	case KindFolder:
		if f, ok := db.Folders[id]; ok {
			return f
		}
	case KindTag:
		if t, ok := db.Tags[id]; ok {
			return t
		}
	case KindSnippet:
		if s, ok := db.Snippets[id]; ok {
			return s
		}
	}
	return nil
}

// DecodeDatabase parses the contents of a massCode db.json. Each collection
// may be stored as an array of records (as massCode writes it) or as an
// object keyed by id.
func DecodeDatabase(data []byte) (*Database, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode database: %w", err)
	}

	db := &Database{documents: make(map[Kind]map[string]query.Document, len(Kinds))}
	var err error
	if db.Folders, db.documents[KindFolder], err = decodeCollection[Folder](raw[KindFolder.Plural()], func(f *Folder) string { return f.ID }); err != nil {
		return nil, fmt.Errorf("decode folders: %w", err)
	}
	if db.Tags, db.documents[KindTag], err = decodeCollection[Tag](raw[KindTag.Plural()], func(t *Tag) string { return t.ID }); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if db.Snippets, db.documents[KindSnippet], err = decodeCollection[Snippet](raw[KindSnippet.Plural()], func(s *Snippet) string { return s.ID }); err != nil {
		return nil, fmt.Errorf("decode snippets: %w", err)
	}
	return db, nil
}

func decodeCollection[T any](data json.RawMessage, idOf func(*T) string) (map[string]*T, map[string]query.Document, error) {
	models := make(map[string]*T)
	docs := make(map[string]query.Document)

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return models, docs, nil
	}

	add := func(key string, item json.RawMessage) error {
		model := new(T)
		if err := json.Unmarshal(item, model); err != nil {
			return err
		}
		var doc query.Document
		if err := json.Unmarshal(item, &doc); err != nil {
			return err
		}
		id := idOf(model)
		if id == "" {
			id = key
		}
		if id == "" {
			return fmt.Errorf("record without id")
		}
		if _, dup := models[id]; dup {
			return fmt.Errorf("duplicate record id %q", id)
		}
		if _, ok := doc["id"]; !ok {
			doc["id"] = id
		}
		models[id] = model
		docs[id] = doc
		return nil
	}

	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, nil, err
		}
		for i, item := range items {
			if err := add("", item); err != nil {
				return nil, nil, fmt.Errorf("record %d: %w", i, err)
			}
		}
	case '{':
		var items map[string]json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, nil, err
		}
		for key, item := range items {
			if err := add(key, item); err != nil {
				return nil, nil, fmt.Errorf("record %q: %w", key, err)
			}
		}
	default:
		return nil, nil, fmt.Errorf("expected array or object, got %q", truncate(string(data), 16))
	}
	return models, docs, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
