package store

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// Op classifies a failed statement by intent so callers and logs can tell
// reads from writes without seeing statement text or bound parameters.
type Op string

const (
	OpRead  Op = "read"
	OpWrite Op = "write"
)

// StorageError wraps a database failure. The message carries only the
// operation kind and the driver error; bound parameters (which may
// contain credentials) never appear in it.
type StorageError struct {
	Op  Op
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsDuplicateEntry reports whether err is a MySQL duplicate-key violation
// (error 1062), looking through any StorageError wrapping. The account
// directory treats this as the canonical duplicate-username signal.
func IsDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
