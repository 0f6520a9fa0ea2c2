package integration

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/danieljhkim/platerun/internal/clock"
	"github.com/danieljhkim/platerun/internal/config"
	"github.com/danieljhkim/platerun/internal/engine"
	"github.com/danieljhkim/platerun/internal/fsops"
	"github.com/danieljhkim/platerun/internal/hardware"
	"github.com/danieljhkim/platerun/internal/hash"
	"github.com/danieljhkim/platerun/internal/liquidclass"
	"github.com/danieljhkim/platerun/internal/runs"
)

// recordingOperator resumes every pause and remembers the prompts. It aborts
// at the pause numbered abortAt (1-based) when set.
type recordingOperator struct {
	mu       sync.Mutex
	prompts  []string
	abortAt  int
	cancelAt int
	cancel   context.CancelFunc
}

func (o *recordingOperator) Resume(ctx context.Context, message string) error {
	o.mu.Lock()
	o.prompts = append(o.prompts, message)
	n := len(o.prompts)
	o.mu.Unlock()

	if o.abortAt == n {
		return hardware.ErrAborted
	}
	if o.cancelAt == n && o.cancel != nil {
		o.cancel()
	}
	return nil
}

func (o *recordingOperator) Prompts() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.prompts...)
}

type testRig struct {
	engine   *engine.Engine
	sim      *hardware.Simulator
	operator *recordingOperator
	store    *runs.FileRunStore
	paths    *config.Paths
}

// setupTestEngine wires an engine against the real filesystem under a
// temporary data root.
func setupTestEngine(t *testing.T) *testRig {
	t.Helper()

	t.Setenv("PLATERUN_ROOT", filepath.Join(t.TempDir(), "platerun"))
	paths, err := config.DefaultPaths()
	if err != nil {
		t.Fatalf("DefaultPaths() error = %v", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories() error = %v", err)
	}

	catalog, err := liquidclass.Load()
	if err != nil {
		t.Fatalf("liquidclass.Load() error = %v", err)
	}

	logger := zaptest.NewLogger(t)
	sim := hardware.NewSimulator(logger)
	op := &recordingOperator{}
	store := runs.NewFileRunStore(fsops.NewRealFS(), paths.Runs)
	clk := clock.NewStepClock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), 30*time.Second)

	eng := engine.New(sim, op, store, hash.NewSHA256Hasher(), clk, catalog, logger)
	return &testRig{engine: eng, sim: sim, operator: op, store: store, paths: paths}
}

func paramsFor(samples int, well string, column int) config.RunParams {
	p := config.DefaultParams()
	p.Samples = samples
	p.StartWell384 = well
	p.StartColumn96 = column
	return p
}

func label(p config.RunParams) string {
	return fmt.Sprintf("%d@%s/%d", p.Samples, p.StartWell384, p.StartColumn96)
}
