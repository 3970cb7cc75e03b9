// Package checks holds the fixed diagnostic check registry and the
// express/full handler implementations.
package checks

import (
	"context"
	"errors"
	"time"

	"github.com/postgres-ai/checkup/internal/adapter"
	"github.com/postgres-ai/checkup/internal/metrics"
)

// Mode selects the pipeline a handler set runs against.
type Mode string

const (
	// ModeExpress queries the live database directly.
	ModeExpress Mode = "express"
	// ModeFull reads two time-separated snapshots from the metrics backend.
	ModeFull Mode = "full"
)

// ErrUnexpectedQuery - a query returned rows that match no recognized
// shape; a contract bug, surfaced through the per-check error boundary.
var ErrUnexpectedQuery = errors.New("checks: unexpected query result")

// Env carries the per-run capabilities and values threaded into every
// handler. It is built once per orchestrator run so concurrent runs
// never share cached state.
type Env struct {
	Executor adapter.Executor
	Metrics  *metrics.Client

	NodeName        string
	PostgresVersion string

	// Snapshot window for full mode.
	WindowStart time.Time
	WindowEnd   time.Time

	// Cap for per-query findings.
	TopQueries int
}

// Handler produces the data payload of one check's NodeResult.
type Handler func(ctx context.Context, env *Env) (map[string]any, error)
