package checks

import (
	"context"

	"github.com/postgres-ai/checkup/internal/metrics"
)

var tableKeyLabels = []string{"schemaname", "relname"}

var tableExprs = map[string]string{
	"seq_scan":     "pg_table_seq_scan",
	"seq_tup_read": "pg_table_seq_tup_read",
	"size_bytes":   "pg_table_size_bytes",
}

// expressTableActivity reads pg_stat_user_tables once and reports
// activity since the last stats reset, busiest sequential scanners first.
func expressTableActivity(ctx context.Context, env *Env) (map[string]any, error) {
	resetTime, now, err := statsWindow(ctx, env)
	if err != nil {
		return nil, err
	}

	rows, err := env.Executor.Execute(ctx, queryTableActivity)
	if err != nil {
		return nil, err
	}

	end := make(metrics.Snapshot, len(rows))
	for _, row := range rows {
		labels := make(map[string]string, len(tableKeyLabels))
		for _, l := range tableKeyLabels {
			v, err := row.String(l)
			if err != nil {
				return nil, err
			}
			labels[l] = v
		}

		values := make(map[string]float64, len(tableExprs))
		for name := range tableExprs {
			v, err := row.Float64(name)
			if err != nil {
				return nil, err
			}
			values[name] = v
		}

		key := metrics.EntityKey(labels, tableKeyLabels)
		end[key] = &metrics.Record{Labels: labels, Metrics: values}
	}

	results := metrics.Diff(metrics.Snapshot{}, end, resetTime, now, "seq_scan")
	return tableActivityData(results), nil
}

// fullTableActivity diffs two metrics-backend snapshots of the table
// counters over the run window.
func fullTableActivity(ctx context.Context, env *Env) (map[string]any, error) {
	start, err := collectSnapshot(ctx, env, tableExprs, tableKeyLabels, env.WindowStart)
	if err != nil {
		return nil, err
	}
	end, err := collectSnapshot(ctx, env, tableExprs, tableKeyLabels, env.WindowEnd)
	if err != nil {
		return nil, err
	}

	results := metrics.Diff(start, end, env.WindowStart, env.WindowEnd, "seq_scan")
	return tableActivityData(results), nil
}

func tableActivityData(results []metrics.DiffResult) map[string]any {
	tables := make([]map[string]any, len(results))
	for i, r := range results {
		tables[i] = r.Row()
	}
	return map[string]any{"tables": tables}
}
