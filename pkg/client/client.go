package client

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/robert-malhotra/go-masscode/pkg/masscode"
	"github.com/robert-malhotra/go-masscode/pkg/query"
)

const tracerName = "github.com/robert-malhotra/go-masscode/pkg/client"

var (
	// ErrNilSource is returned when a client is built without a database source.
	ErrNilSource = errors.New("client: database source cannot be nil")
	// ErrUnknownKind is returned for a record kind other than folder, tag or snippet.
	ErrUnknownKind = errors.New("client: unknown record kind")
)

// Source supplies database snapshots. *masscode.Store satisfies it.
type Source interface {
	Load(ctx context.Context) (*masscode.Database, error)
}

// Logger represents the minimal logging interface used by the client.
type Logger interface {
	Debugf(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Errorf(string, ...any) {}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithLogger registers a logger used for query lifecycle events.
func WithLogger(logger Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithWorkers evaluates queries across n goroutines. Values below 2 keep
// evaluation on the calling goroutine.
func WithWorkers(n int) ClientOption {
	return func(c *Client) { c.workers = n }
}

// Client runs queries against a massCode database.
type Client struct {
	source  Source
	logger  Logger
	workers int
}

// NewClient creates a client reading snapshots from source.
func NewClient(source Source, opts ...ClientOption) (*Client, error) {
	if source == nil {
		return nil, ErrNilSource
	}
	c := &Client{
		source: source,
		logger: nopLogger{},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Parse compiles query text. Blank text yields a nil expression, which
// matches every record.
func Parse(text string) (query.Expression, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return query.Parse(text)
}

// Query returns the query documents of one kind that match text, keyed by id.
func (c *Client) Query(ctx context.Context, kind masscode.Kind, text string) (map[string]query.Document, error) {
	expr, err := Parse(text)
	if err != nil {
		return nil, err
	}
	db, ids, err := c.match(ctx, kind, expr)
	if err != nil {
		return nil, err
	}
	docs := db.Documents(kind)
	out := make(map[string]query.Document, len(ids))
	for _, id := range ids {
		out[id] = docs[id]
	}
	return out, nil
}

// IDs returns the sorted ids of the records of one kind that match text.
func (c *Client) IDs(ctx context.Context, kind masscode.Kind, text string) ([]string, error) {
	expr, err := Parse(text)
	if err != nil {
		return nil, err
	}
	_, ids, err := c.match(ctx, kind, expr)
	return ids, err
}

// match loads the current snapshot and returns the sorted ids of the records
// of kind satisfying expr. A nil expr matches everything.
func (c *Client) match(ctx context.Context, kind masscode.Kind, expr query.Expression) (*masscode.Database, []string, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "client.match")
	defer span.End()
	span.SetAttributes(attribute.String("masscode.kind", string(kind)))

	fail := func(err error) (*masscode.Database, []string, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	if !validKind(kind) {
		return fail(fmt.Errorf("%w: %q", ErrUnknownKind, kind))
	}

	db, err := c.source.Load(ctx)
	if err != nil {
		c.logger.Errorf("client: load database: %v", err)
		return fail(err)
	}
	docs := db.Documents(kind)

	var ids []string
	switch {
	case expr == nil:
		ids = slices.Sorted(maps.Keys(docs))
	case c.workers > 1:
		span.SetAttributes(attribute.String("masscode.query", expr.String()))
		matched, err := query.FilterParallel(ctx, expr, docs, c.workers)
		if err != nil {
			return fail(err)
		}
		ids = slices.Sorted(maps.Keys(matched))
	default:
		span.SetAttributes(attribute.String("masscode.query", expr.String()))
		ids = query.FilterIDs(expr, docs)
	}
	if ids == nil {
		ids = []string{}
	}

	span.SetAttributes(attribute.Int("masscode.matches", len(ids)))
	c.logger.Debugf("client: %s query %q matched %d of %d", kind, describe(expr), len(ids), len(docs))
	return db, ids, nil
}

func validKind(kind masscode.Kind) bool {
	return slices.Contains(masscode.Kinds, kind)
}

func describe(expr query.Expression) string {
	if expr == nil {
		return "<all>"
	}
	return expr.String()
}
