// Package store is the persistence façade: the single point of access to
// the backing MySQL database. It owns the connection handle, executes
// parameterized statements and hands rows back as ordered tuples, so
// callers never touch database/sql directly.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Row is one result row as an ordered tuple. Text and BLOB columns are
// returned as string, integer columns as int64, the rest as the driver
// delivers them.
type Row = []any

// Facade is the surface consumers depend on. Accepting this interface
// instead of *Store keeps the account directory, repositories and the
// importer testable without a live database.
type Facade interface {
	QueryOne(ctx context.Context, query string, args ...any) (Row, error)
	QueryMany(ctx context.Context, query string, args ...any) ([]Row, error)
	Exec(ctx context.Context, query string, args ...any) (int64, error)
}

// Store wraps one *sql.DB for the process lifetime. Connect is idempotent
// and Close releases the handle; a later Connect reopens it.
type Store struct {
	user string
	pass string
	host string
	port string
	name string

	mu sync.Mutex
	db *sql.DB
}

// New builds a Store from MySQL connection parameters. No connection is
// opened until Connect (or the first query) runs.
func New(user, pass, host, port, name string) *Store {
	return &Store{user: user, pass: pass, host: host, port: port, name: name}
}

// Connect returns the live database handle, opening and pinging it on
// first use. Repeated calls reuse the existing handle and never leak
// connections.
func (s *Store) Connect(ctx context.Context) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db, nil
	}

	auth := s.user
	if s.pass != "" {
		auth = fmt.Sprintf("%s:%s", s.user, s.pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, s.host, s.port, s.name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, &StorageError{Op: OpRead, Err: err}
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, &StorageError{Op: OpRead, Err: err}
	}

	s.db = db
	return s.db, nil
}

// QueryMany executes a parameterized read and returns all matching rows.
// Zero matches yield an empty slice, not an error.
func (s *Store) QueryMany(ctx context.Context, query string, args ...any) ([]Row, error) {
	db, err := s.Connect(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &StorageError{Op: OpRead, Err: err}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &StorageError{Op: OpRead, Err: err}
	}

	out := make([]Row, 0)
	for rows.Next() {
		tuple, err := scanTuple(rows, len(cols))
		if err != nil {
			return nil, &StorageError{Op: OpRead, Err: err}
		}
		out = append(out, tuple)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: OpRead, Err: err}
	}
	return out, nil
}

// QueryOne executes a parameterized read expected to match at most one
// row. An absent row is a normal outcome and returns (nil, nil).
func (s *Store) QueryOne(ctx context.Context, query string, args ...any) (Row, error) {
	rows, err := s.QueryMany(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Exec runs an INSERT, UPDATE or DELETE in autocommit mode and returns
// the number of affected rows. The write is durable before Exec returns.
func (s *Store) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	db, err := s.Connect(ctx)
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, &StorageError{Op: OpWrite, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &StorageError{Op: OpWrite, Err: err}
	}
	return n, nil
}

// Close releases the handle. Safe to call repeatedly; Connect reopens
// after a Close.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return &StorageError{Op: OpWrite, Err: err}
	}
	return nil
}

// scanTuple reads the current row into an ordered tuple, normalizing
// []byte columns (MySQL returns TEXT as []byte) to string.
func scanTuple(rows *sql.Rows, n int) (Row, error) {
	vals := make([]any, n)
	ptrs := make([]any, n)
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	for i, v := range vals {
		if b, ok := v.([]byte); ok {
			vals[i] = string(b)
		}
	}
	return vals, nil
}
