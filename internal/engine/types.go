package engine

import (
	"github.com/danieljhkim/platerun/internal/config"
	"github.com/danieljhkim/platerun/internal/planner"
	"github.com/danieljhkim/platerun/internal/protocol"
	"github.com/danieljhkim/platerun/internal/runs"
)

// PlanRequest represents a request to plan a run.
type PlanRequest struct {
	// Params are the resolved run parameters
	Params config.RunParams
}

// PlanResult represents the outcome of planning.
type PlanResult struct {
	// Params are the parameters the plan was computed from
	Params config.RunParams `json:"params"`

	// Plan is the destination plan
	Plan *planner.Plan `json:"plan"`

	// Fingerprint is the hash of Params
	Fingerprint string `json:"fingerprint"`

	// Warnings are non-fatal remarks about Params
	Warnings []string `json:"warnings,omitempty"`
}

// RunRequest represents a request to execute a run.
type RunRequest struct {
	// Params are the resolved run parameters
	Params config.RunParams

	// ParamsFile is the parameter file Params were loaded from, if any
	ParamsFile string

	// DryRun builds and records the protocol without driving hardware
	DryRun bool
}

// RunResult represents the outcome of a run.
type RunResult struct {
	// Record is the persisted run record
	Record *runs.RunRecord

	// Protocol is the executed protocol
	Protocol *protocol.Protocol
}
