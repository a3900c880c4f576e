package masscode

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind names one of the three record collections in a massCode database.
type Kind string

const (
	KindFolder  Kind = "folder"
	KindTag     Kind = "tag"
	KindSnippet Kind = "snippet"
)

// Kinds lists every record kind in output order.
var Kinds = []Kind{KindFolder, KindTag, KindSnippet}

// ParseKind accepts a kind name in singular or plural form.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "folder", "folders":
		return KindFolder, nil
	case "tag", "tags":
		return KindTag, nil
	case "snippet", "snippets":
		return KindSnippet, nil
	}
	return "", fmt.Errorf("unknown record kind %q", s)
}

// Plural returns the database key holding records of this kind.
func (k Kind) Plural() string { return string(k) + "s" }

// Folder is a snippet folder.
type Folder struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Index           int     `json:"index"`
	ParentID        *string `json:"parentId"`
	DefaultLanguage string  `json:"defaultLanguage"`
	IsOpen          bool    `json:"isOpen"`
	IsSystem        bool    `json:"isSystem"`
	CreatedAt       int64   `json:"createdAt"`
	UpdatedAt       int64   `json:"updatedAt"`

	// AdditionalFields holds members this version of the model does not name.
	AdditionalFields map[string]any `json:"-"`
}

var knownFolderFields = fieldSet("id", "name", "index", "parentId", "defaultLanguage",
	"isOpen", "isSystem", "createdAt", "updatedAt")

func (f *Folder) UnmarshalJSON(data []byte) error {
	type folderAlias Folder
	var aux folderAlias
	extras, err := unmarshalWithExtras(data, &aux, knownFolderFields)
	if err != nil {
		return err
	}
	*f = Folder(aux)
	f.AdditionalFields = extras
	return nil
}

func (f Folder) MarshalJSON() ([]byte, error) {
	type folderAlias Folder
	return marshalWithExtras(folderAlias(f), f.AdditionalFields)
}

// Tag is a snippet label.
type Tag struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`

	AdditionalFields map[string]any `json:"-"`
}

var knownTagFields = fieldSet("id", "name", "createdAt", "updatedAt")

func (t *Tag) UnmarshalJSON(data []byte) error {
	type tagAlias Tag
	var aux tagAlias
	extras, err := unmarshalWithExtras(data, &aux, knownTagFields)
	if err != nil {
		return err
	}
	*t = Tag(aux)
	t.AdditionalFields = extras
	return nil
}

func (t Tag) MarshalJSON() ([]byte, error) {
	type tagAlias Tag
	return marshalWithExtras(tagAlias(t), t.AdditionalFields)
}

// Content is one fragment of a snippet.
type Content struct {
	Label    string `json:"label"`
	Language string `json:"language"`
	Value    string `json:"value"`
}

// Snippet is a stored code snippet with its fragments.
type Snippet struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	IsDeleted   bool      `json:"isDeleted"`
	IsFavorites bool      `json:"isFavorites"`
	FolderID    string    `json:"folderId"`
	TagsIDs     []string  `json:"tagsIds"`
	Content     []Content `json:"content"`
	CreatedAt   int64     `json:"createdAt"`
	UpdatedAt   int64     `json:"updatedAt"`

	AdditionalFields map[string]any `json:"-"`
}

var knownSnippetFields = fieldSet("id", "name", "description", "isDeleted", "isFavorites",
	"folderId", "tagsIds", "content", "createdAt", "updatedAt")

func (s *Snippet) UnmarshalJSON(data []byte) error {
	type snippetAlias Snippet
	var aux snippetAlias
	extras, err := unmarshalWithExtras(data, &aux, knownSnippetFields)
	if err != nil {
		return err
	}
	*s = Snippet(aux)
	s.AdditionalFields = extras
	return nil
}

func (s Snippet) MarshalJSON() ([]byte, error) {
	type snippetAlias Snippet
	return marshalWithExtras(snippetAlias(s), s.AdditionalFields)
}

func fieldSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// unmarshalWithExtras decodes data into target and returns the members whose
// keys are not in known.
func unmarshalWithExtras(data []byte, target any, known map[string]bool) (map[string]any, error) {
	if err := json.Unmarshal(data, target); err != nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	var extras map[string]any
	for key, val := range raw {
		if known[key] {
			continue
		}
		var decoded any
		if err := json.Unmarshal(val, &decoded); err != nil {
			continue
		}
		if extras == nil {
			extras = make(map[string]any)
		}
		extras[key] = decoded
	}
	return extras, nil
}

func marshalWithExtras(v any, extras map[string]any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(extras) == 0 {
		return data, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	for key, val := range extras {
		encoded, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		obj[key] = encoded
	}
	return json.Marshal(obj)
}
