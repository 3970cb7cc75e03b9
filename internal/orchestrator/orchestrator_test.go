package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postgres-ai/checkup/internal/adapter"
	"github.com/postgres-ai/checkup/internal/checks"
)

// scriptedExecutor answers queries by the first matching substring and
// fails everything else.
type scriptedExecutor struct {
	routes []scriptedRoute
}

type scriptedRoute struct {
	marker string
	rows   []adapter.Row
	err    error
}

func (s *scriptedExecutor) Execute(_ context.Context, sql string) ([]adapter.Row, error) {
	for _, r := range s.routes {
		if strings.Contains(sql, r.marker) {
			return r.rows, r.err
		}
	}
	return nil, fmt.Errorf("unscripted query: %.60s", sql)
}

// partiallyFailingExecutor answers the version and settings queries and
// fails the catalog and statistics queries, so part of the batch
// succeeds and part fails.
func partiallyFailingExecutor() *scriptedExecutor {
	catalogErr := errors.New("permission denied for table pg_index")
	return &scriptedExecutor{routes: []scriptedRoute{
		{marker: "server_version_num", rows: []adapter.Row{
			{"version": "PostgreSQL 16.2", "server_version_num": int64(160002)}}},
		{marker: "version() as version", rows: []adapter.Row{{"version": "PostgreSQL 16.2"}}},
		{marker: "pg_extension", rows: []adapter.Row{{"installed": false}}},
		{marker: "Autovacuum%", rows: []adapter.Row{{"name": "autovacuum", "setting": "on"}}},
		{marker: "shared_buffers", rows: []adapter.Row{{"name": "shared_buffers", "setting": "16384"}}},
		{marker: "not i.indisvalid", err: catalogErr},
		{marker: "idx_scan = 0", err: catalogErr},
		{marker: "covered_by", err: catalogErr},
		{marker: "stats_reset", rows: []adapter.Row{
			{"stats_reset_epoch": int64(1_700_000_000), "now_epoch": int64(1_700_003_600)}}},
		{marker: "pg_stat_user_tables", err: catalogErr},
	}}
}

func TestRun_EveryRegisteredCheckGetsAReport(t *testing.T) {
	o := New(Options{
		Executor: partiallyFailingExecutor(),
		Mode:     checks.ModeExpress,
		NodeName: "node-1",
	})

	reports := o.Run(context.Background())

	ids := checks.IDs()
	require.Len(t, reports, len(ids))
	for _, id := range ids {
		rep, ok := reports[id]
		require.True(t, ok, "missing report for %s", id)
		assert.Equal(t, id, rep.CheckID)
		assert.Equal(t, checks.Titles()[id], rep.CheckTitle)
		assert.Equal(t, "node-1", rep.Nodes.Primary)
		require.Contains(t, rep.Results, "node-1")
	}
}

func TestRun_FailureIsolation(t *testing.T) {
	o := New(Options{
		Executor: partiallyFailingExecutor(),
		Mode:     checks.ModeExpress,
		NodeName: "node-1",
	})

	reports := o.Run(context.Background())

	failing := []string{"H001", "H002", "H004", "L003"}
	for _, id := range failing {
		result := reports[id].Results["node-1"]
		assert.Contains(t, result.Error, "permission denied", "check %s", id)
		assert.NotNil(t, result.Data, "check %s", id)
		assert.Empty(t, result.Data, "check %s", id)
	}

	succeeding := []string{"A002", "D004", "F001", "G001", "K003"}
	for _, id := range succeeding {
		result := reports[id].Results["node-1"]
		assert.Empty(t, result.Error, "check %s", id)
	}

	version := reports["A002"].Results["node-1"]
	assert.Equal(t, "PostgreSQL 16.2", version.Data["version"])
}

func TestRun_ThreadsPostgresVersionIntoEveryResult(t *testing.T) {
	o := New(Options{
		Executor: partiallyFailingExecutor(),
		Mode:     checks.ModeExpress,
		NodeName: "node-1",
	})

	reports := o.Run(context.Background())

	for id, rep := range reports {
		assert.Equal(t, "PostgreSQL 16.2", rep.Results["node-1"].PostgresVersion, "check %s", id)
	}
}

func TestRun_VersionFetchFailureDegrades(t *testing.T) {
	// Everything fails, including the version probe. The batch still
	// produces a report per check, each carrying its error.
	o := New(Options{
		Executor: &scriptedExecutor{},
		Mode:     checks.ModeExpress,
		NodeName: "node-1",
	})

	reports := o.Run(context.Background())

	require.Len(t, reports, len(checks.IDs()))
	for id, rep := range reports {
		result := rep.Results["node-1"]
		assert.Empty(t, result.PostgresVersion, "check %s", id)
		assert.NotEmpty(t, result.Error, "check %s", id)
	}
}

func TestFetchVersion_UnexpectedRowCountLogsTheCount(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	o := New(Options{Executor: &scriptedExecutor{routes: []scriptedRoute{
		{marker: "version() as version", rows: []adapter.Row{}},
	}}})

	version := o.fetchVersion(context.Background())

	assert.Empty(t, version)
	assert.Contains(t, buf.String(), "version query returned 0 rows")
	assert.NotContains(t, buf.String(), "<nil>")
}

func TestRunHandler_RecoversPanic(t *testing.T) {
	o := New(Options{QueryTimeout: time.Second})
	boom := func(context.Context, *checks.Env) (map[string]any, error) {
		panic("nil pool")
	}

	data, err := o.runHandler(context.Background(), boom, &checks.Env{})

	require.Error(t, err)
	assert.Nil(t, data)
	assert.Contains(t, err.Error(), "nil pool")
}

func TestRunHandler_AppliesQueryTimeout(t *testing.T) {
	o := New(Options{QueryTimeout: 10 * time.Millisecond})
	blocked := func(ctx context.Context, _ *checks.Env) (map[string]any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	_, err := o.runHandler(context.Background(), blocked, &checks.Env{})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
