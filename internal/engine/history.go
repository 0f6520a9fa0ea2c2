package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/danieljhkim/platerun/internal/runs"
)

// ListRuns returns recorded runs, newest first.
func (e *Engine) ListRuns(ctx context.Context) ([]*runs.RunRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.store.List()
}

// ShowRun returns the run matching a full ID or unique ID prefix.
func (e *Engine) ShowRun(ctx context.Context, ref string) (*runs.RunRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return runs.Resolve(e.store, ref)
}

// DeleteRun removes the run matching ref and returns its full ID.
func (e *Engine) DeleteRun(ctx context.Context, ref string) (string, error) {
	rec, err := e.ShowRun(ctx, ref)
	if err != nil {
		return "", err
	}
	if err := e.store.Delete(rec.ID); err != nil {
		return "", err
	}
	e.logger.Info("run deleted", zap.String("run", rec.ID))
	return rec.ID, nil
}
