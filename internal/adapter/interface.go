// Package adapter provides the SQL-executor capability the check
// handlers consume.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// Executor runs one diagnostic query and returns its rows keyed by
// column name. Implementations share a single connection pool across a
// whole checkup run and never write to the target database.
type Executor interface {
	Execute(ctx context.Context, sql string) ([]Row, error)
}

var (
	// ErrNotConnected - Connect() not called or failed
	ErrNotConnected = errors.New("adapter: not connected to database")

	// ErrMissingColumn - a query result lacks a column the handler relies on
	ErrMissingColumn = errors.New("adapter: expected column missing from result")
)

// Row is one result row keyed by column name. The typed accessors fail
// loudly when an expected column is absent instead of silently coercing,
// since a missing column means the query contract was broken.
type Row map[string]any

func (r Row) String(col string) (string, error) {
	v, ok := r[col]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingColumn, col)
	}
	if v == nil {
		return "", nil
	}
	switch val := v.(type) {
	case string:
		return val, nil
	case []byte:
		return string(val), nil
	default:
		return fmt.Sprintf("%v", val), nil
	}
}

func (r Row) Int64(col string) (int64, error) {
	v, ok := r[col]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingColumn, col)
	}
	switch val := v.(type) {
	case int64:
		return val, nil
	case int32:
		return int64(val), nil
	case int16:
		return int64(val), nil
	case int:
		return int64(val), nil
	case float64:
		return int64(val), nil
	case string:
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("adapter: column %s is not an integer: %w", col, err)
		}
		return n, nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("adapter: column %s has unexpected type %T", col, v)
	}
}

func (r Row) Float64(col string) (float64, error) {
	v, ok := r[col]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingColumn, col)
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case int32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case string:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("adapter: column %s is not a number: %w", col, err)
		}
		return f, nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("adapter: column %s has unexpected type %T", col, v)
	}
}

func (r Row) Bool(col string) (bool, error) {
	v, ok := r[col]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrMissingColumn, col)
	}
	switch val := v.(type) {
	case bool:
		return val, nil
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("adapter: column %s has unexpected type %T", col, v)
	}
}
