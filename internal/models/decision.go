package models

// Action is the remediation recommended for a broken index.
type Action string

const (
	ActionDrop      Action = "drop"
	ActionRecreate  Action = "recreate"
	ActionUncertain Action = "uncertain"
)

// Rebuilding an index on a table smaller than this is considered cheap
// enough to always recommend.
const smallTableRowEstimate = 10000

// RecommendIndexAction maps an index's structural facts to a remediation.
// Rule order is fixed and first match wins:
//
//  1. A valid duplicate already serves the same purpose, so even a broken
//     PK index is dropped, not rebuilt.
//  2. PK/unique constraints must stay enforced, so the index is rebuilt.
//  3. Small table: rebuild cost is negligible, default to the safe path.
//  4. Large table with no safety net: a human must judge the rebuild cost.
func RecommendIndexAction(f IndexFinding) Action {
	if f.HasValidDuplicate {
		return ActionDrop
	}
	if f.IsPK || f.IsUnique {
		return ActionRecreate
	}
	if f.TableRowEstimate < smallTableRowEstimate {
		return ActionRecreate
	}
	return ActionUncertain
}
