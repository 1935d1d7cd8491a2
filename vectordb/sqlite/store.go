// Package sqlite persists label embeddings in a SQLite table using the pure-Go
// modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/viant/voucher/db/sqliteutil"
	"github.com/viant/voucher/vectordb"
	_ "modernc.org/sqlite"
)

const defaultTable = "label_embedding"

// Store is a vectordb.Store backed by SQLite.
type Store struct {
	db     *sql.DB
	table  string
	closed atomic.Bool
}

// Option configures a Store.
type Option func(*Store)

// WithTable overrides the embedding table name.
func WithTable(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.table = name
		}
	}
}

// Open opens (or creates) the cache database at path.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	dsn := sqliteutil.DefaultPragmas.Apply(sqliteutil.DSN(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if sqliteutil.IsMemory(dsn) {
		db.SetMaxOpenConns(1)
	}
	s, err := New(ctx, db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing connection and ensures the schema.
func New(ctx context.Context, db *sql.DB, opts ...Option) (*Store, error) {
	s := &Store{db: db, table: defaultTable}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id TEXT PRIMARY KEY,
	model TEXT NOT NULL,
	record BLOB NOT NULL,
	updated_at DATETIME NOT NULL
)`, s.table)
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("sqlite: create %s: %w", s.table, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (*vectordb.Record, bool, error) {
	if s.closed.Load() {
		return nil, false, vectordb.ErrClosed
	}
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT record FROM "+s.table+" WHERE id = ?", key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	record, err := vectordb.Unmarshal(data)
	if err != nil {
		return nil, false, err
	}
	return record, true, nil
}

func (s *Store) Put(ctx context.Context, key string, record *vectordb.Record) error {
	if s.closed.Load() {
		return vectordb.ErrClosed
	}
	data, err := record.Marshal()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, "INSERT INTO "+s.table+` (id, model, record, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET model = excluded.model, record = excluded.record, updated_at = excluded.updated_at`,
		key, record.Model, data, record.CreatedAt)
	return err
}

// Count returns the number of cached embeddings.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+s.table).Scan(&n)
	return n, err
}

func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.db.Close()
}
