// Package runs keeps the history of executed and rehearsed runs.
//
// Each run is one JSON file named <run-id>.json under the runs directory.
// Records are written atomically and never partially updated.
package runs

import (
	"time"

	"github.com/danieljhkim/platerun/internal/config"
	"github.com/danieljhkim/platerun/internal/planner"
)

// Run status constants
const (
	StatusPlanned   = "planned"
	StatusCompleted = "completed"
	StatusAborted   = "aborted"
	StatusFailed    = "failed"
)

// RunRecord is the persisted outcome of one run.
type RunRecord struct {
	// ID is the unique run identifier
	ID string `json:"id"`

	// Fingerprint is the hash of the resolved run parameters
	Fingerprint string `json:"fingerprint"`

	// ParamsFile is the parameter file the run was loaded from, if any
	ParamsFile string `json:"params_file,omitempty"`

	// ParamsFileHash is the hash of ParamsFile at load time
	ParamsFileHash string `json:"params_file_hash,omitempty"`

	// CreatedAt is when the run started
	CreatedAt time.Time `json:"created_at"`

	// FinishedAt is when the run stopped
	FinishedAt time.Time `json:"finished_at"`

	// Status is one of planned, completed, aborted, failed
	Status string `json:"status"`

	// DryRun is true if no driver calls were made
	DryRun bool `json:"dry_run"`

	// Params are the resolved run parameters
	Params config.RunParams `json:"params"`

	// Plan is the destination plan
	Plan *planner.Plan `json:"plan"`

	// Steps is the number of steps in the protocol
	Steps int `json:"steps"`

	// Executed is the number of steps that completed
	Executed int `json:"executed"`

	// Error is the failure or abort reason
	Error string `json:"error,omitempty"`
}

// Duration returns how long the run took.
func (r *RunRecord) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.CreatedAt)
}
