package query

import (
	"context"
	"fmt"
	"maps"
	"runtime"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Filter returns the records of a keyed collection that satisfy expr. The
// records themselves are returned unmodified.
func Filter[R Record](expr Expression, records map[string]R) map[string]R {
	out := make(map[string]R)
	for id, rec := range records {
		if Evaluate(expr, rec) {
			out[id] = rec
		}
	}
	return out
}

// FilterIDs returns the ids of the records that satisfy expr, sorted
// ascending.
func FilterIDs[R Record](expr Expression, records map[string]R) []string {
	ids := make([]string, 0)
	for id, rec := range records {
		if Evaluate(expr, rec) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// FilterParallel is Filter spread over up to workers goroutines. A
// non-positive workers value uses GOMAXPROCS. It stops early and returns
// ctx.Err() when ctx is cancelled.
func FilterParallel[R Record](ctx context.Context, expr Expression, records map[string]R, workers int) (map[string]R, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	ids := slices.Collect(maps.Keys(records))
	if workers > len(ids) {
		workers = len(ids)
	}
	if workers <= 1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return Filter(expr, records), nil
	}

	var (
		mu  sync.Mutex
		out = make(map[string]R)
	)
	g, gctx := errgroup.WithContext(ctx)
	chunk := (len(ids) + workers - 1) / workers
	for start := 0; start < len(ids); start += chunk {
		part := ids[start:min(start+chunk, len(ids))]
		g.Go(func() error {
			matched := make(map[string]R)
			for i, id := range part {
				if i%256 == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				if rec := records[id]; Evaluate(expr, rec) {
					matched[id] = rec
				}
			}
			mu.Lock()
			maps.Copy(out, matched)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Matcher is a parsed query ready to be applied to records.
type Matcher struct {
	text string
	expr Expression
}

// Compile parses text into a Matcher.
func Compile(text string) (*Matcher, error) {
	expr, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return &Matcher{text: text, expr: expr}, nil
}

// Expression returns the parsed tree.
func (m *Matcher) Expression() Expression { return m.expr }

// Text returns the query text the matcher was compiled from.
func (m *Matcher) Text() string { return m.text }

// Match reports whether rec satisfies the query.
func (m *Matcher) Match(rec Record) bool { return Evaluate(m.expr, rec) }

// Filter returns the documents that satisfy the query.
func (m *Matcher) Filter(docs map[string]Document) map[string]Document {
	return Filter(m.expr, docs)
}

// FilterIDs returns the sorted ids of the documents that satisfy the query.
func (m *Matcher) FilterIDs(docs map[string]Document) []string {
	return FilterIDs(m.expr, docs)
}

func (m *Matcher) String() string { return m.expr.String() }

// Combine joins several query texts with '&' or '|' into one query, wrapping
// each operand in its own parentheses and folding from the left:
// Combine("&", a, b, c) is "((a) & (b)) & (c)". Blank queries are skipped.
func Combine(op string, queries ...string) (string, error) {
	if op != "&" && op != "|" {
		return "", fmt.Errorf("combine: unsupported operator %q", op)
	}
	var combined string
	for _, q := range queries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		if combined == "" {
			combined = q
			continue
		}
		combined = fmt.Sprintf("(%s) %s (%s)", combined, op, q)
	}
	return combined, nil
}
