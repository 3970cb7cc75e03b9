package checks

import (
	"context"
	"sort"
	"time"

	"github.com/postgres-ai/checkup/internal/metrics"
)

// Entity identity for one tracked statement.
var statementKeyLabels = []string{"datname", "queryid", "usename"}

// Metric expressions served by the metrics backend for statement counters.
var statementExprs = map[string]string{
	"calls":      "pgss_calls",
	"total_time": "pgss_total_time",
	"rows":       "pgss_rows",
}

// The backend answers a window around each snapshot instant; the matcher
// picks the sample closest to it.
const (
	snapshotWindow = 5 * time.Minute
	snapshotStep   = time.Minute
)

// expressTopQueries reads pg_stat_statements once and diffs against an
// empty start snapshot anchored at the stats-reset time, so the express
// and full pipelines emit the same per-query shape.
func expressTopQueries(ctx context.Context, env *Env) (map[string]any, error) {
	installed, err := statStatementsInstalled(ctx, env)
	if err != nil {
		return nil, err
	}
	if !installed {
		return map[string]any{"queries": []map[string]any{}}, nil
	}

	resetTime, now, err := statsWindow(ctx, env)
	if err != nil {
		return nil, err
	}

	rows, err := env.Executor.Execute(ctx, queryTopStatements)
	if err != nil {
		return nil, err
	}

	end := make(metrics.Snapshot, len(rows))
	for _, row := range rows {
		labels := make(map[string]string, len(statementKeyLabels))
		for _, l := range statementKeyLabels {
			v, err := row.String(l)
			if err != nil {
				return nil, err
			}
			labels[l] = v
		}

		values := make(map[string]float64, len(statementExprs))
		for name := range statementExprs {
			v, err := row.Float64(name)
			if err != nil {
				return nil, err
			}
			values[name] = v
		}

		key := metrics.EntityKey(labels, statementKeyLabels)
		end[key] = &metrics.Record{Labels: labels, Metrics: values}
	}

	results := metrics.Diff(metrics.Snapshot{}, end, resetTime, now, "total_time")
	return topQueriesData(results, env.TopQueries), nil
}

// fullTopQueries diffs two metrics-backend snapshots over the run window.
func fullTopQueries(ctx context.Context, env *Env) (map[string]any, error) {
	start, err := collectSnapshot(ctx, env, statementExprs, statementKeyLabels, env.WindowStart)
	if err != nil {
		return nil, err
	}
	end, err := collectSnapshot(ctx, env, statementExprs, statementKeyLabels, env.WindowEnd)
	if err != nil {
		return nil, err
	}

	results := metrics.Diff(start, end, env.WindowStart, env.WindowEnd, "total_time")
	return topQueriesData(results, env.TopQueries), nil
}

func topQueriesData(results []metrics.DiffResult, limit int) map[string]any {
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	queries := make([]map[string]any, len(results))
	for i, r := range results {
		queries[i] = r.Row()
	}
	return map[string]any{"queries": queries}
}

// expressQueryTotals aggregates all statements into one record,
// reporting totals since the last stats reset.
func expressQueryTotals(ctx context.Context, env *Env) (map[string]any, error) {
	installed, err := statStatementsInstalled(ctx, env)
	if err != nil {
		return nil, err
	}
	if !installed {
		return map[string]any{}, nil
	}

	resetTime, now, err := statsWindow(ctx, env)
	if err != nil {
		return nil, err
	}

	rows, err := env.Executor.Execute(ctx, queryStatementTotals)
	if err != nil {
		return nil, err
	}
	if len(rows) != 1 {
		return nil, ErrUnexpectedQuery
	}

	values := make(map[string]float64, len(statementExprs))
	for name := range statementExprs {
		v, err := rows[0].Float64(name)
		if err != nil {
			return nil, err
		}
		values[name] = v
	}

	end := metrics.Snapshot{"": &metrics.Record{Labels: map[string]string{}, Metrics: values}}
	results := metrics.Diff(metrics.Snapshot{}, end, resetTime, now, "total_time")
	return results[0].Row(), nil
}

// fullQueryTotals computes the same aggregate from two backend snapshots.
func fullQueryTotals(ctx context.Context, env *Env) (map[string]any, error) {
	exprs := make(map[string]string, len(statementExprs))
	for name, expr := range statementExprs {
		exprs[name] = "sum(" + expr + ")"
	}

	start, err := collectSnapshot(ctx, env, exprs, nil, env.WindowStart)
	if err != nil {
		return nil, err
	}
	end, err := collectSnapshot(ctx, env, exprs, nil, env.WindowEnd)
	if err != nil {
		return nil, err
	}

	results := metrics.Diff(start, end, env.WindowStart, env.WindowEnd, "total_time")
	if len(results) == 0 {
		// No series in the window: benign, the backend has no data yet.
		return map[string]any{}, nil
	}
	return results[0].Row(), nil
}

// statsWindow returns the statistics-reset time and the server's now,
// which anchor express-mode diffs.
func statsWindow(ctx context.Context, env *Env) (time.Time, time.Time, error) {
	rows, err := env.Executor.Execute(ctx, queryStatsResetEpoch)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if len(rows) != 1 {
		return time.Time{}, time.Time{}, ErrUnexpectedQuery
	}

	resetEpoch, err := rows[0].Int64("stats_reset_epoch")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	nowEpoch, err := rows[0].Int64("now_epoch")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	return time.Unix(resetEpoch, 0).UTC(), time.Unix(nowEpoch, 0).UTC(), nil
}

// collectSnapshot queries each metric over a window around the instant
// and builds the per-entity snapshot at it.
func collectSnapshot(ctx context.Context, env *Env, exprs map[string]string, keyLabels []string, at time.Time) (metrics.Snapshot, error) {
	names := make([]string, 0, len(exprs))
	for name := range exprs {
		names = append(names, name)
	}
	sort.Strings(names)

	collections := make([]metrics.Collection, 0, len(names))
	for _, name := range names {
		series, err := env.Metrics.RangeQuery(ctx, exprs[name], at.Add(-snapshotWindow), at.Add(snapshotWindow), snapshotStep)
		if err != nil {
			return nil, err
		}
		collections = append(collections, metrics.Collection{Name: name, Series: series})
	}

	return metrics.BuildSnapshot(collections, keyLabels, float64(at.Unix())), nil
}
