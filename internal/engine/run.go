package engine

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/danieljhkim/platerun/internal/hardware"
	"github.com/danieljhkim/platerun/internal/protocol"
	"github.com/danieljhkim/platerun/internal/runs"
)

// Run plans, builds and executes a run, then records the outcome.
//
// Algorithm steps:
// 1. Validate parameters and plan destinations (no record on failure)
// 2. Build the protocol
// 3. Hash the params file, if any
// 4. DryRun: record as planned and stop
// 5. Load the deck and execute every step in order
// 6. Record completed, aborted or failed
func (e *Engine) Run(ctx context.Context, req *RunRequest) (*RunResult, error) {
	planned, err := e.Plan(ctx, &PlanRequest{Params: req.Params})
	if err != nil {
		return nil, err
	}

	proto, err := protocol.Build(planned.Params, planned.Plan, e.catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to build protocol: %w", err)
	}

	rec := &runs.RunRecord{
		ID:          e.newID(),
		Fingerprint: planned.Fingerprint,
		ParamsFile:  req.ParamsFile,
		CreatedAt:   e.clock.Now(),
		Status:      runs.StatusPlanned,
		DryRun:      req.DryRun,
		Params:      planned.Params,
		Plan:        planned.Plan,
		Steps:       len(proto.Steps),
	}
	if req.ParamsFile != "" {
		sum, err := e.hasher.HashFile(req.ParamsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to hash params file: %w", err)
		}
		rec.ParamsFileHash = sum
	}

	result := &RunResult{Record: rec, Protocol: proto}
	logger := e.logger.With(zap.String("run", rec.ID))

	if req.DryRun {
		rec.FinishedAt = e.clock.Now()
		if err := e.store.Save(rec); err != nil {
			return result, fmt.Errorf("failed to save run record: %w", err)
		}
		logger.Info("dry run recorded", zap.Int("steps", rec.Steps))
		return result, nil
	}

	runErr := e.execute(ctx, proto, rec, logger)

	rec.FinishedAt = e.clock.Now()
	switch {
	case runErr == nil:
		rec.Status = runs.StatusCompleted
	case errors.Is(runErr, hardware.ErrAborted), errors.Is(runErr, context.Canceled):
		rec.Status = runs.StatusAborted
		rec.Error = runErr.Error()
	default:
		rec.Status = runs.StatusFailed
		rec.Error = runErr.Error()
	}

	if err := e.store.Save(rec); err != nil {
		if runErr != nil {
			return result, fmt.Errorf("%w (also failed to save run record: %v)", runErr, err)
		}
		return result, fmt.Errorf("failed to save run record: %w", err)
	}

	logger.Info("run finished",
		zap.String("status", rec.Status),
		zap.Int("executed", rec.Executed),
		zap.Int("steps", rec.Steps))
	return result, runErr
}

// execute drives every step in order and counts completed steps on rec.
func (e *Engine) execute(ctx context.Context, proto *protocol.Protocol, rec *runs.RunRecord, logger *zap.Logger) error {
	if err := e.driver.LoadDeck(ctx, proto.Deck); err != nil {
		return fmt.Errorf("failed to load deck: %w", err)
	}

	for i, step := range proto.Steps {
		logger.Debug("executing step", zap.Int("index", i), zap.String("step", step.Describe()))
		if err := e.executeStep(ctx, step); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Type, err)
		}
		rec.Executed++
	}
	return nil
}

// executeStep executes a single step.
func (e *Engine) executeStep(ctx context.Context, step protocol.Step) error {
	switch step.Type {
	case protocol.StepLoadLiquid:
		return e.driver.LoadLiquid(ctx, step)
	case protocol.StepSetTemperature:
		return e.driver.SetTemperature(ctx, step.Module, step.Celsius)
	case protocol.StepPause:
		return e.operator.Resume(ctx, step.Message)
	case protocol.StepDistribute:
		return e.driver.Distribute(ctx, step)
	case protocol.StepTransfer:
		return e.driver.Transfer(ctx, step)
	default:
		return fmt.Errorf("unknown step type: %s", step.Type)
	}
}
