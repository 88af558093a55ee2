// Package storetest provides an in-memory stand-in for the persistence
// façade. It understands just the statement shapes the account directory
// and the legacy importer issue against the users table, which keeps
// those packages testable without a MySQL server.
package storetest

import (
	"context"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/mkarov/intelconsole/internal/store"
)

// User is one fake credential row.
type User struct {
	Hash string
	Role string
}

// Fake implements store.Facade over a map. Set QueryErr or ExecErr to
// force failures.
type Fake struct {
	Users    map[string]User
	QueryErr error
	ExecErr  error
}

func New() *Fake { return &Fake{Users: make(map[string]User)} }

func (f *Fake) QueryOne(_ context.Context, query string, args ...any) (store.Row, error) {
	if f.QueryErr != nil {
		return nil, f.QueryErr
	}
	username, _ := args[0].(string)
	u, ok := f.Users[username]
	if !ok {
		return nil, nil
	}
	if strings.HasPrefix(query, "SELECT id") {
		return store.Row{int64(1)}, nil
	}
	return store.Row{username, u.Hash, u.Role}, nil
}

func (f *Fake) QueryMany(ctx context.Context, query string, args ...any) ([]store.Row, error) {
	if f.QueryErr != nil {
		return nil, f.QueryErr
	}
	return []store.Row{}, nil
}

func (f *Fake) Exec(_ context.Context, query string, args ...any) (int64, error) {
	if f.ExecErr != nil {
		return 0, f.ExecErr
	}
	if !strings.HasPrefix(query, "INSERT") {
		return 0, nil
	}
	username, _ := args[0].(string)
	hash, _ := args[1].(string)
	role, _ := args[2].(string)

	if _, exists := f.Users[username]; exists {
		if strings.HasPrefix(query, "INSERT IGNORE") {
			return 0, nil
		}
		return 0, &store.StorageError{
			Op:  store.OpWrite,
			Err: &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"},
		}
	}
	f.Users[username] = User{Hash: hash, Role: role}
	return 1, nil
}
