package checks

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/postgres-ai/checkup/internal/adapter"
	"github.com/postgres-ai/checkup/internal/models"
)

// checkInvalidIndexes reports indexes left invalid by failed builds,
// each with a remediation recommended by the decision tree.
func checkInvalidIndexes(ctx context.Context, env *Env) (map[string]any, error) {
	rows, err := env.Executor.Execute(ctx, queryInvalidIndexes)
	if err != nil {
		return nil, err
	}

	findings := make([]models.IndexFinding, 0, len(rows))
	var totalSize int64
	for _, row := range rows {
		f, err := indexFindingFromRow(row)
		if err != nil {
			return nil, err
		}
		// Only this query reports duplicates; the shared row mapper must
		// not require the column.
		if f.HasValidDuplicate, err = row.Bool("has_valid_duplicate"); err != nil {
			return nil, err
		}
		f.RecommendedAction = models.RecommendIndexAction(f)
		findings = append(findings, f)
		totalSize += f.SizeBytes
	}

	return map[string]any{
		"invalid_indexes":  findings,
		"total_size_bytes": totalSize,
	}, nil
}

// checkUnusedIndexes reports indexes with zero scans since the last
// stats reset, largest first.
func checkUnusedIndexes(ctx context.Context, env *Env) (map[string]any, error) {
	rows, err := env.Executor.Execute(ctx, queryUnusedIndexes)
	if err != nil {
		return nil, err
	}

	findings := make([]models.IndexFinding, 0, len(rows))
	var totalSize int64
	for _, row := range rows {
		f, err := indexFindingFromRow(row)
		if err != nil {
			return nil, err
		}
		findings = append(findings, f)
		totalSize += f.SizeBytes
	}

	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].SizeBytes > findings[j].SizeBytes
	})

	return map[string]any{
		"never_used_indexes": findings,
		"total_size_bytes":   totalSize,
	}, nil
}

// checkRedundantIndexes reports indexes fully covered by another valid
// index. The covering list arrives as JSON in one column and is decoded
// into a structured type right here at the row boundary.
func checkRedundantIndexes(ctx context.Context, env *Env) (map[string]any, error) {
	rows, err := env.Executor.Execute(ctx, queryRedundantIndexes)
	if err != nil {
		return nil, err
	}

	findings := make([]models.IndexFinding, 0, len(rows))
	var totalSize int64
	for _, row := range rows {
		f, err := indexFindingFromRow(row)
		if err != nil {
			return nil, err
		}

		coveredBy, err := row.String("covered_by")
		if err != nil {
			return nil, err
		}
		if coveredBy != "" {
			if err := json.Unmarshal([]byte(coveredBy), &f.CoveredBy); err != nil {
				return nil, fmt.Errorf("%w: covered_by is not valid JSON: %v", ErrUnexpectedQuery, err)
			}
		}

		findings = append(findings, f)
		totalSize += f.SizeBytes
	}

	return map[string]any{
		"redundant_indexes": findings,
		"total_size_bytes":  totalSize,
	}, nil
}

func indexFindingFromRow(row adapter.Row) (models.IndexFinding, error) {
	var f models.IndexFinding
	var err error

	if f.Schema, err = row.String("schema_name"); err != nil {
		return f, err
	}
	if f.Table, err = row.String("table_name"); err != nil {
		return f, err
	}
	if f.Name, err = row.String("index_name"); err != nil {
		return f, err
	}
	if f.SizeBytes, err = row.Int64("index_size_bytes"); err != nil {
		return f, err
	}
	if f.Definition, err = row.String("index_definition"); err != nil {
		return f, err
	}
	if f.IsPK, err = row.Bool("is_pk"); err != nil {
		return f, err
	}
	if f.IsUnique, err = row.Bool("is_unique"); err != nil {
		return f, err
	}
	if f.SupportsFK, err = row.Bool("supports_fk"); err != nil {
		return f, err
	}
	if f.TableRowEstimate, err = row.Int64("table_row_estimate"); err != nil {
		return f, err
	}

	return f, nil
}
