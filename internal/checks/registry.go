package checks

import "sort"

// titles is the stable check-id → title map. Its key set must always
// equal the handler map's key set, in both modes.
var titles = map[string]string{
	"A002": "Postgres version",
	"D004": "pg_stat_statements and pg_stat_kcache settings",
	"F001": "Autovacuum: current settings",
	"G001": "Memory-related settings",
	"H001": "Invalid indexes",
	"H002": "Unused indexes",
	"H004": "Redundant indexes",
	"K001": "Globally aggregated query metrics",
	"K003": "Top queries by total execution time",
	"L003": "Table activity and sequential scans",
}

// Titles returns a copy of the check-id → title map.
func Titles() map[string]string {
	out := make(map[string]string, len(titles))
	for id, title := range titles {
		out[id] = title
	}
	return out
}

// Handlers returns the check-id → handler map for the given mode. Checks
// backed by time-series counters get a dedicated full-mode handler;
// structural checks run their direct-query handler in both modes, so the
// two pipelines stay substitutable per check id.
func Handlers(mode Mode) map[string]Handler {
	handlers := map[string]Handler{
		"A002": checkVersion,
		"D004": checkStatStatementsSettings,
		"F001": checkAutovacuumSettings,
		"G001": checkMemorySettings,
		"H001": checkInvalidIndexes,
		"H002": checkUnusedIndexes,
		"H004": checkRedundantIndexes,
		"K001": expressQueryTotals,
		"K003": expressTopQueries,
		"L003": expressTableActivity,
	}

	if mode == ModeFull {
		handlers["K001"] = fullQueryTotals
		handlers["K003"] = fullTopQueries
		handlers["L003"] = fullTableActivity
	}

	return handlers
}

// IDs returns all registered check ids in stable order.
func IDs() []string {
	ids := make([]string, 0, len(titles))
	for id := range titles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
