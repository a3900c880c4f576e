package client

import (
	"context"
	"iter"

	"github.com/robert-malhotra/go-masscode/pkg/masscode"
	"github.com/robert-malhotra/go-masscode/pkg/query"
)

// Folders yields the folders matching text in id order.
func (c *Client) Folders(ctx context.Context, text string) iter.Seq2[*masscode.Folder, error] {
	return parsedRecords(c, ctx, masscode.KindFolder, text, func(db *masscode.Database) map[string]*masscode.Folder {
		return db.Folders
	})
}

// Tags yields the tags matching text in id order.
func (c *Client) Tags(ctx context.Context, text string) iter.Seq2[*masscode.Tag, error] {
	return parsedRecords(c, ctx, masscode.KindTag, text, func(db *masscode.Database) map[string]*masscode.Tag {
		return db.Tags
	})
}

// Snippets yields the snippets matching text in id order.
func (c *Client) Snippets(ctx context.Context, text string) iter.Seq2[*masscode.Snippet, error] {
	return parsedRecords(c, ctx, masscode.KindSnippet, text, snippetModels)
}

// SnippetsInFolders yields the snippets matching snippetQuery whose folder
// matches folderQuery. Either query may be blank.
func (c *Client) SnippetsInFolders(ctx context.Context, folderQuery, snippetQuery string) iter.Seq2[*masscode.Snippet, error] {
	return c.snippetsReferencing(ctx, masscode.KindFolder, "folderId", folderQuery, snippetQuery)
}

// SnippetsWithTags yields the snippets matching snippetQuery that carry at
// least one tag matching tagQuery. Either query may be blank.
func (c *Client) SnippetsWithTags(ctx context.Context, tagQuery, snippetQuery string) iter.Seq2[*masscode.Snippet, error] {
	return c.snippetsReferencing(ctx, masscode.KindTag, "tagsIds", tagQuery, snippetQuery)
}

// snippetsReferencing resolves refQuery against kind and narrows the snippet
// query to records whose field refers to one of the resolved ids.
func (c *Client) snippetsReferencing(ctx context.Context, kind masscode.Kind, field, refQuery, snippetQuery string) iter.Seq2[*masscode.Snippet, error] {
	return func(yield func(*masscode.Snippet, error) bool) {
		snippetExpr, err := Parse(snippetQuery)
		if err != nil {
			yield(nil, err)
			return
		}
		ids, err := c.IDs(ctx, kind, refQuery)
		if err != nil {
			yield(nil, err)
			return
		}
		if len(ids) == 0 {
			return
		}

		var expr query.Expression = query.Condition{Field: field, Operator: query.OneOf, Values: ids}
		if snippetExpr != nil {
			expr = query.And{Left: snippetExpr, Right: expr}
		}
		for s, err := range records(c, ctx, masscode.KindSnippet, expr, snippetModels) {
			if !yield(s, err) {
				return
			}
		}
	}
}

func snippetModels(db *masscode.Database) map[string]*masscode.Snippet { return db.Snippets }

func parsedRecords[T any](c *Client, ctx context.Context, kind masscode.Kind, text string, models func(*masscode.Database) map[string]*T) iter.Seq2[*T, error] {
	expr, err := Parse(text)
	if err != nil {
		return func(yield func(*T, error) bool) {
			yield(nil, err)
		}
	}
	return records(c, ctx, kind, expr, models)
}

// records runs expr once the sequence is ranged over and yields the typed
// models behind the matching documents.
func records[T any](c *Client, ctx context.Context, kind masscode.Kind, expr query.Expression, models func(*masscode.Database) map[string]*T) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		db, ids, err := c.match(ctx, kind, expr)
		if err != nil {
			yield(nil, err)
			return
		}
		byID := models(db)
		for _, id := range ids {
			rec, ok := byID[id]
			if !ok {
				continue
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}
