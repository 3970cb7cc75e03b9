package models

// IndexFinding holds the structural facts about one index surfaced by
// the index health checks (invalid, unused, redundant).
type IndexFinding struct {
	Schema            string `json:"schema"`
	Table             string `json:"table"`
	Name              string `json:"index_name"`
	SizeBytes         int64  `json:"index_size_bytes"`
	Definition        string `json:"index_definition"`
	IsPK              bool   `json:"is_pk"`
	IsUnique          bool   `json:"is_unique"`
	SupportsFK        bool   `json:"supports_fk"`
	HasValidDuplicate bool   `json:"has_valid_duplicate"`
	TableRowEstimate  int64  `json:"table_row_estimate"`

	// RecommendedAction is set by the remediation decision tree for
	// invalid indexes.
	RecommendedAction Action `json:"recommended_action,omitempty"`

	// CoveredBy lists the indexes that subsume this one. Only populated
	// for redundant-index findings.
	CoveredBy []CoveringIndex `json:"covered_by,omitempty"`
}

// CoveringIndex identifies one index that makes another redundant.
type CoveringIndex struct {
	Name       string `json:"index_name"`
	Definition string `json:"index_definition"`
	SizeBytes  int64  `json:"index_size_bytes"`
}
