package masscode

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/spf13/afero"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "github.com/robert-malhotra/go-masscode/pkg/masscode"

// Logger represents the minimal logging interface used by the store.
// *logrus.Logger and *logrus.Entry satisfy it.
type Logger interface {
	Debugf(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Errorf(string, ...any) {}

// Option configures a Store during construction.
type Option func(*Store)

// WithFs sets the filesystem the store reads from. Defaults to the OS
// filesystem.
func WithFs(fsys afero.Fs) Option {
	return func(s *Store) {
		if fsys != nil {
			s.fs = fsys
		}
	}
}

// WithAppDataPath sets the massCode settings directory used to locate
// preferences.json. Defaults to DefaultAppDataPath().
func WithAppDataPath(dir string) Option {
	return func(s *Store) {
		if dir != "" {
			s.appData = dir
		}
	}
}

// WithDatabasePath points the store directly at a db.json, bypassing
// preferences.json.
func WithDatabasePath(path string) Option {
	return func(s *Store) { s.dbPath = path }
}

// WithLogger registers a logger for load and cache events.
func WithLogger(logger Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store reads a massCode database and caches the decoded snapshot until the
// file's modification time moves past the one last observed. It is safe for
// concurrent use.
type Store struct {
	fs      afero.Fs
	appData string
	dbPath  string
	logger  Logger

	mu         sync.Mutex
	cached     *Database
	cachedPath string
	modTime    time.Time
}

// NewStore creates a Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		fs:     afero.NewOsFs(),
		logger: nopLogger{},
	}
	for _, o := range opts {
		o(s)
	}
	if s.appData == "" {
		s.appData = DefaultAppDataPath()
	}
	return s
}

// Path returns the db.json location, reading preferences.json when no
// explicit database path was configured.
func (s *Store) Path() (string, error) {
	if s.dbPath != "" {
		return s.dbPath, nil
	}
	return ResolveDatabasePath(s.fs, s.appData)
}

// Load returns the current database snapshot, re-reading db.json only when
// it changed since the previous load.
func (s *Store) Load(ctx context.Context) (*Database, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "masscode.Load")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.Path()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("masscode.db_path", path))

	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := s.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %s", ErrDatabaseNotFound, path)
		} else {
			err = fmt.Errorf("stat database: %w", err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if s.cached != nil && s.cachedPath == path && !info.ModTime().After(s.modTime) {
		span.SetAttributes(attribute.Bool("masscode.cache_hit", true))
		return s.cached, nil
	}
	span.SetAttributes(attribute.Bool("masscode.cache_hit", false))

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		err = fmt.Errorf("read database: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	db, err := DecodeDatabase(data)
	if err != nil {
		s.logger.Errorf("masscode: %s: %v", path, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	s.logger.Debugf("masscode: loaded %s (%d folders, %d tags, %d snippets)",
		path, len(db.Folders), len(db.Tags), len(db.Snippets))

	s.cached = db
	s.cachedPath = path
	s.modTime = info.ModTime()
	return db, nil
}

// Expired reports whether the next Load would re-read the database file.
func (s *Store) Expired() bool {
	path, err := s.Path()
	if err != nil {
		return true
	}
	info, err := s.fs.Stat(path)
	if err != nil {
		return true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cached == nil || s.cachedPath != path || info.ModTime().After(s.modTime)
}

// Invalidate drops the cached snapshot.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

// Folders returns the folders of the current snapshot keyed by id.
func (s *Store) Folders(ctx context.Context) (map[string]*Folder, error) {
	db, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return db.Folders, nil
}

// Tags returns the tags of the current snapshot keyed by id.
func (s *Store) Tags(ctx context.Context) (map[string]*Tag, error) {
	db, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return db.Tags, nil
}

// Snippets returns the snippets of the current snapshot keyed by id.
func (s *Store) Snippets(ctx context.Context) (map[string]*Snippet, error) {
	db, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return db.Snippets, nil
}
