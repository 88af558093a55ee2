// Package repository maps domain records (incidents, datasets, tickets)
// onto the persistence façade. Repositories issue parameterized SQL only
// and convert the façade's ordered tuples into model structs; they never
// hold their own database handle.
package repository

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrNotFound is returned when a record addressed by ID does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("record not found")

// Tuple accessors. The façade returns MySQL values as int64/float64/
// string after normalization; fakes used in tests may hand back plain
// Go values, so these accept both.

func tupleString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

func tupleInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case uint64:
		return int64(t)
	case float64:
		return int64(t)
	case []byte:
		n, _ := strconv.ParseInt(string(t), 10, 64)
		return n
	case string:
		n, _ := strconv.ParseInt(t, 10, 64)
		return n
	}
	return 0
}

func tupleFloat64(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int64:
		return float64(t)
	case int:
		return float64(t)
	case []byte:
		f, _ := strconv.ParseFloat(string(t), 64)
		return f
	case string:
		f, _ := strconv.ParseFloat(t, 64)
		return f
	}
	return 0
}
