package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/danieljhkim/platerun/internal/clock"
	"github.com/danieljhkim/platerun/internal/config"
	"github.com/danieljhkim/platerun/internal/fsops"
	"github.com/danieljhkim/platerun/internal/hardware"
	"github.com/danieljhkim/platerun/internal/hash"
	"github.com/danieljhkim/platerun/internal/labware"
	"github.com/danieljhkim/platerun/internal/liquidclass"
	"github.com/danieljhkim/platerun/internal/protocol"
	"github.com/danieljhkim/platerun/internal/runs"
)

var testStart = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

// scriptedOperator resumes pauses until abortAt (1-based), then aborts.
type scriptedOperator struct {
	abortAt  int
	messages []string
}

func (o *scriptedOperator) Resume(ctx context.Context, message string) error {
	o.messages = append(o.messages, message)
	if o.abortAt > 0 && len(o.messages) == o.abortAt {
		return hardware.ErrAborted
	}
	return nil
}

type testEnv struct {
	engine   *Engine
	sim      *hardware.Simulator
	operator *scriptedOperator
	store    *runs.FileRunStore
}

func setupTestEngine(t *testing.T) *testEnv {
	t.Helper()

	catalog, err := liquidclass.Load()
	if err != nil {
		t.Fatalf("liquidclass.Load() error = %v", err)
	}

	sim := hardware.NewSimulator(zap.NewNop())
	op := &scriptedOperator{}
	store := runs.NewFileRunStore(fsops.NewMemFS(), "/runs")
	eng := New(sim, op, store, hash.NewSHA256Hasher(),
		clock.NewStepClock(testStart, time.Second), catalog, zap.NewNop())

	n := 0
	eng.newID = func() string {
		n++
		return fmt.Sprintf("run-%04d", n)
	}

	return &testEnv{engine: eng, sim: sim, operator: op, store: store}
}

func TestEngine_Plan(t *testing.T) {
	env := setupTestEngine(t)

	params := config.DefaultParams()
	result, err := env.engine.Plan(context.Background(), &PlanRequest{Params: params})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	if result.Plan.NumColumns != 3 {
		t.Errorf("NumColumns = %d, want 3", result.Plan.NumColumns)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, result.Plan.Columns96); diff != "" {
		t.Errorf("Columns96 mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A1", "B1", "A2"}, result.Plan.WellLabels()); diff != "" {
		t.Errorf("Wells384 mismatch (-want +got):\n%s", diff)
	}
	if result.Fingerprint == "" {
		t.Error("Fingerprint is empty")
	}
	if len(result.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", result.Warnings)
	}

	again, err := env.engine.Plan(context.Background(), &PlanRequest{Params: params})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if again.Fingerprint != result.Fingerprint {
		t.Errorf("Fingerprint not stable: %s != %s", again.Fingerprint, result.Fingerprint)
	}
}

func TestEngine_Plan_Warnings(t *testing.T) {
	env := setupTestEngine(t)

	params := config.DefaultParams()
	params.Samples = 20

	result, err := env.engine.Plan(context.Background(), &PlanRequest{Params: params})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if result.Plan.NumColumns != 3 {
		t.Errorf("NumColumns = %d, want 3", result.Plan.NumColumns)
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a warning for a sample count that is not a multiple of 8")
	}
}

func TestEngine_Plan_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.RunParams)
	}{
		{"too few samples", func(p *config.RunParams) { p.Samples = 4 }},
		{"too many samples", func(p *config.RunParams) { p.Samples = 104 }},
		{"cell volume", func(p *config.RunParams) { p.CellVolume = 30 }},
		{"soc volume", func(p *config.RunParams) { p.SOCVolume = 5 }},
		{"start column", func(p *config.RunParams) { p.StartColumn96 = 13 }},
		{"start well", func(p *config.RunParams) { p.StartWell384 = "C1" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEngine(t)
			params := config.DefaultParams()
			tt.mutate(&params)

			_, err := env.engine.Plan(context.Background(), &PlanRequest{Params: params})
			if !errors.Is(err, ErrValidation) {
				t.Errorf("Plan() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestEngine_Plan_Canceled(t *testing.T) {
	env := setupTestEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := env.engine.Plan(ctx, &PlanRequest{Params: config.DefaultParams()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Plan() error = %v, want context.Canceled", err)
	}
}

func TestEngine_Protocol(t *testing.T) {
	env := setupTestEngine(t)

	proto, err := env.engine.Protocol(context.Background(), &PlanRequest{Params: config.DefaultParams()})
	if err != nil {
		t.Fatalf("Protocol() error = %v", err)
	}

	if got := len(proto.Steps); got != 15 {
		t.Errorf("len(Steps) = %d, want 15", got)
	}
	if got := proto.Count(protocol.StepPause); got != 3 {
		t.Errorf("pauses = %d, want 3", got)
	}
	if got := proto.Count(protocol.StepTransfer); got != 7 {
		t.Errorf("transfers = %d, want 7", got)
	}
	if len(env.sim.Journal()) != 0 {
		t.Error("Protocol() must not call the driver")
	}
}

func TestEngine_Run(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()

	result, err := env.engine.Run(ctx, &RunRequest{Params: config.DefaultParams()})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	rec := result.Record
	if rec.ID != "run-0001" {
		t.Errorf("ID = %q, want run-0001", rec.ID)
	}
	if rec.Status != runs.StatusCompleted {
		t.Errorf("Status = %q, want %q", rec.Status, runs.StatusCompleted)
	}
	if rec.Executed != rec.Steps || rec.Steps != 15 {
		t.Errorf("Executed/Steps = %d/%d, want 15/15", rec.Executed, rec.Steps)
	}
	if rec.Duration() <= 0 {
		t.Errorf("Duration() = %v, want > 0", rec.Duration())
	}

	// load_deck + every non-pause step
	if got := len(env.sim.Journal()); got != 13 {
		t.Errorf("journal length = %d, want 13", got)
	}
	if c, ok := env.sim.Temperature(labware.TempModule); !ok || c != protocol.HoldCelsius {
		t.Errorf("Temperature() = %v, %v, want %v, true", c, ok, protocol.HoldCelsius)
	}

	wantPrompts := []string{protocol.PromptLoadCells, protocol.PromptRemovePlate, protocol.PromptReturnPlate}
	if diff := cmp.Diff(wantPrompts, env.operator.messages); diff != "" {
		t.Errorf("operator prompts mismatch (-want +got):\n%s", diff)
	}

	saved, err := env.store.Load(rec.ID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(rec, saved); diff != "" {
		t.Errorf("saved record mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_Run_ValidationSavesNothing(t *testing.T) {
	env := setupTestEngine(t)

	params := config.DefaultParams()
	params.Samples = 0

	_, err := env.engine.Run(context.Background(), &RunRequest{Params: params})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Run() error = %v, want ErrValidation", err)
	}
	if len(env.sim.Journal()) != 0 {
		t.Error("driver was called for invalid params")
	}

	list, err := env.store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 0 {
		t.Errorf("got %d records, want 0", len(list))
	}
}

func TestEngine_Run_DryRun(t *testing.T) {
	env := setupTestEngine(t)

	result, err := env.engine.Run(context.Background(), &RunRequest{Params: config.DefaultParams(), DryRun: true})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Record.Status != runs.StatusPlanned {
		t.Errorf("Status = %q, want %q", result.Record.Status, runs.StatusPlanned)
	}
	if !result.Record.DryRun {
		t.Error("DryRun = false, want true")
	}
	if result.Record.Executed != 0 {
		t.Errorf("Executed = %d, want 0", result.Record.Executed)
	}
	if len(env.sim.Journal()) != 0 {
		t.Error("dry run called the driver")
	}
	if len(env.operator.messages) != 0 {
		t.Error("dry run prompted the operator")
	}
	if _, err := env.store.Load(result.Record.ID); err != nil {
		t.Errorf("dry run record not saved: %v", err)
	}
}

func TestEngine_Run_Aborted(t *testing.T) {
	env := setupTestEngine(t)
	env.operator.abortAt = 2

	result, err := env.engine.Run(context.Background(), &RunRequest{Params: config.DefaultParams()})
	if !errors.Is(err, hardware.ErrAborted) {
		t.Fatalf("Run() error = %v, want ErrAborted", err)
	}

	rec := result.Record
	if rec.Status != runs.StatusAborted {
		t.Errorf("Status = %q, want %q", rec.Status, runs.StatusAborted)
	}
	// 3 load_liquid, set_temperature, pause, distribute
	if rec.Executed != 6 {
		t.Errorf("Executed = %d, want 6", rec.Executed)
	}
	if rec.Error == "" {
		t.Error("Error is empty")
	}

	saved, err := env.store.Load(rec.ID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if saved.Status != runs.StatusAborted {
		t.Errorf("saved Status = %q, want %q", saved.Status, runs.StatusAborted)
	}
}

func TestEngine_Run_DriverFailure(t *testing.T) {
	env := setupTestEngine(t)
	boom := errors.New("gantry stalled")
	env.sim.FailOn(hardware.CallDistribute, boom)

	result, err := env.engine.Run(context.Background(), &RunRequest{Params: config.DefaultParams()})
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want %v", err, boom)
	}
	if result.Record.Status != runs.StatusFailed {
		t.Errorf("Status = %q, want %q", result.Record.Status, runs.StatusFailed)
	}
	if result.Record.Executed != 5 {
		t.Errorf("Executed = %d, want 5", result.Record.Executed)
	}
}

func TestEngine_Run_ParamsFileHash(t *testing.T) {
	env := setupTestEngine(t)

	path := filepath.Join(t.TempDir(), "params.yaml")
	if err := os.WriteFile(path, []byte("number_of_samples: 16\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	params := config.DefaultParams()
	params.Samples = 16
	result, err := env.engine.Run(context.Background(), &RunRequest{Params: params, ParamsFile: path, DryRun: true})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Record.ParamsFile != path {
		t.Errorf("ParamsFile = %q, want %q", result.Record.ParamsFile, path)
	}
	if result.Record.ParamsFileHash == "" {
		t.Error("ParamsFileHash is empty")
	}
}

func TestEngine_Runs(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := env.engine.Run(ctx, &RunRequest{Params: config.DefaultParams(), DryRun: true}); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	}

	list, err := env.engine.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	var ids []string
	for _, rec := range list {
		ids = append(ids, rec.ID)
	}
	if diff := cmp.Diff([]string{"run-0003", "run-0002", "run-0001"}, ids); diff != "" {
		t.Errorf("ListRuns() order mismatch (-want +got):\n%s", diff)
	}

	rec, err := env.engine.ShowRun(ctx, "run-0002")
	if err != nil {
		t.Fatalf("ShowRun() error = %v", err)
	}
	if rec.ID != "run-0002" {
		t.Errorf("ShowRun() ID = %q, want run-0002", rec.ID)
	}

	if _, err := env.engine.ShowRun(ctx, "run-"); err == nil {
		t.Error("ShowRun() with ambiguous prefix should fail")
	}

	id, err := env.engine.DeleteRun(ctx, "run-0001")
	if err != nil {
		t.Fatalf("DeleteRun() error = %v", err)
	}
	if id != "run-0001" {
		t.Errorf("DeleteRun() = %q, want run-0001", id)
	}

	if _, err := env.engine.ShowRun(ctx, "run-0001"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ShowRun() after delete error = %v, want ErrNotFound", err)
	}
}
