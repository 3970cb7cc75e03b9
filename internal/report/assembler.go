// Package report assembles the canonical report envelope.
package report

import (
	"time"

	"github.com/postgres-ai/checkup/internal/models"
)

// New initializes an empty, valid envelope for one check: UTC ISO-8601
// timestamp, the given node as primary, no standbys, no results yet.
func New(checkID, checkTitle, primaryNode string) *models.Report {
	return &models.Report{
		CheckID:     checkID,
		CheckTitle:  checkTitle,
		Timestamptz: time.Now().UTC().Format(time.RFC3339),
		Nodes: models.Nodes{
			Primary:  primaryNode,
			Standbys: []string{},
		},
		Results: make(map[string]models.NodeResult),
	}
}

// AttachResult inserts exactly one NodeResult keyed by node name. A nil
// data map becomes an empty one so failed checks still serialize with
// the expected shape.
func AttachResult(r *models.Report, nodeName string, data map[string]any, postgresVersion string, runErr error) {
	if data == nil {
		data = map[string]any{}
	}

	result := models.NodeResult{
		Data:            data,
		PostgresVersion: postgresVersion,
	}
	if runErr != nil {
		result.Error = runErr.Error()
	}

	r.Results[nodeName] = result
}
