// Package models defines the wire-level shapes shared by the check
// handlers, the orchestrator and the report consumers. Field names and
// nesting are a cross-language contract validated downstream per check,
// so tags here must not change casually.
package models

// Report is the envelope for one completed check on one database cluster.
type Report struct {
	CheckID     string                `json:"checkId"`
	CheckTitle  string                `json:"checkTitle"`
	Timestamptz string                `json:"timestamptz"`
	Nodes       Nodes                 `json:"nodes"`
	Results     map[string]NodeResult `json:"results"`
}

// Nodes describes the cluster topology the report covers.
type Nodes struct {
	Primary  string   `json:"primary"`
	Standbys []string `json:"standbys"`
}

// NodeResult holds the outcome of a check on a single node. Data is
// populated on success; Error carries the failure message when the
// handler failed. Both may coexist if a partial result was produced
// before the failure.
type NodeResult struct {
	Data            map[string]any `json:"data"`
	PostgresVersion string         `json:"postgres_version,omitempty"`
	Error           string         `json:"error,omitempty"`
}
