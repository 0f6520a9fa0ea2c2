// Package engine provides the core orchestration for platerun.
//
// The engine sits between the CLI and everything else. It validates run
// parameters, asks the planner for destinations, builds the protocol, drives
// the hardware layer step by step and records the outcome.
//
// Key components:
//   - Plan: parameters to destination plan, no side effects
//   - Protocol: plan to ordered instruction list, no side effects
//   - Run: executes a protocol against a Driver and Operator and saves a record
//   - Runs: list, show and delete recorded runs
package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/danieljhkim/platerun/internal/clock"
	"github.com/danieljhkim/platerun/internal/hardware"
	"github.com/danieljhkim/platerun/internal/hash"
	"github.com/danieljhkim/platerun/internal/liquidclass"
	"github.com/danieljhkim/platerun/internal/planner"
	"github.com/danieljhkim/platerun/internal/protocol"
	"github.com/danieljhkim/platerun/internal/runs"
)

// Engine orchestrates all platerun operations.
// It is the main API surface called by the CLI.
type Engine struct {
	driver   hardware.Driver
	operator hardware.Operator
	store    runs.RunStore
	hasher   hash.Hasher
	clock    clock.Clock
	catalog  liquidclass.Catalog
	logger   *zap.Logger
	newID    func() string
}

// New creates a new Engine with the given dependencies.
func New(
	driver hardware.Driver,
	operator hardware.Operator,
	store runs.RunStore,
	hasher hash.Hasher,
	clk clock.Clock,
	catalog liquidclass.Catalog,
	logger *zap.Logger,
) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		driver:   driver,
		operator: operator,
		store:    store,
		hasher:   hasher,
		clock:    clk,
		catalog:  catalog,
		logger:   logger.Named("engine"),
		newID:    func() string { return uuid.NewString() },
	}
}

// Plan validates parameters and computes the destination plan.
func (e *Engine) Plan(ctx context.Context, req *PlanRequest) (*PlanResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := req.Params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	plan, err := planner.PlanColumns(req.Params.Samples, req.Params.StartColumn96, req.Params.StartWell384)
	if err != nil {
		return nil, err
	}

	fingerprint, err := hash.Fingerprint(e.hasher, req.Params)
	if err != nil {
		return nil, err
	}

	warnings := req.Params.Warnings()
	for _, w := range warnings {
		e.logger.Warn("run parameters", zap.String("warning", w))
	}
	e.logger.Debug("planned run",
		zap.Int("columns", plan.NumColumns),
		zap.Ints("columns_96", plan.Columns96),
		zap.Strings("wells_384", plan.WellLabels()))

	return &PlanResult{
		Params:      req.Params,
		Plan:        plan,
		Fingerprint: fingerprint,
		Warnings:    warnings,
	}, nil
}

// Protocol plans a run and resolves its instruction list.
func (e *Engine) Protocol(ctx context.Context, req *PlanRequest) (*protocol.Protocol, error) {
	planned, err := e.Plan(ctx, req)
	if err != nil {
		return nil, err
	}
	proto, err := protocol.Build(planned.Params, planned.Plan, e.catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to build protocol: %w", err)
	}
	return proto, nil
}
