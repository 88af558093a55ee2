package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestStorageErrorMessageCarriesIntentOnly(t *testing.T) {
	err := &StorageError{Op: OpWrite, Err: fmt.Errorf("driver: bad connection")}

	assert.Contains(t, err.Error(), "write")
	assert.NotContains(t, err.Error(), "INSERT", "statement text must not leak")
}

func TestStorageErrorUnwrap(t *testing.T) {
	inner := fmt.Errorf("gone away")
	err := &StorageError{Op: OpRead, Err: inner}

	assert.ErrorIs(t, err, inner)
}

func TestIsDuplicateEntry(t *testing.T) {
	dup := &StorageError{Op: OpWrite, Err: &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}}
	assert.True(t, IsDuplicateEntry(dup))

	// Wrapped once more, as the account directory sees it.
	assert.True(t, IsDuplicateEntry(fmt.Errorf("register insert: %w", dup)))

	other := &StorageError{Op: OpWrite, Err: &mysql.MySQLError{Number: 1213, Message: "Deadlock found"}}
	assert.False(t, IsDuplicateEntry(other))
	assert.False(t, IsDuplicateEntry(errors.New("plain error")))
}
