package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/platerun/internal/clock"
	"github.com/danieljhkim/platerun/internal/config"
	"github.com/danieljhkim/platerun/internal/engine"
	"github.com/danieljhkim/platerun/internal/fsops"
	"github.com/danieljhkim/platerun/internal/hardware"
	"github.com/danieljhkim/platerun/internal/hash"
	"github.com/danieljhkim/platerun/internal/liquidclass"
	"github.com/danieljhkim/platerun/internal/planner"
	"github.com/danieljhkim/platerun/internal/runs"
)

// Run parameter flags shared by plan, protocol, params and run.
var (
	paramsFile    string
	samples       int
	cellVolume    float64
	socVolume     float64
	startWell384  string
	startColumn96 int
)

// addParamFlags registers the run parameter flags on cmd.
func addParamFlags(cmd *cobra.Command) {
	defaults := config.DefaultParams()
	flags := cmd.Flags()
	flags.StringVarP(&paramsFile, "params", "p", "", "YAML parameter file")
	flags.IntVarP(&samples, "samples", "n", defaults.Samples, "Number of samples")
	flags.Float64Var(&cellVolume, "cell-volume", defaults.CellVolume, "Competent cell volume per well (µL)")
	flags.Float64Var(&socVolume, "soc-volume", defaults.SOCVolume, "SOC volume per 96-well column (µL)")
	flags.StringVar(&startWell384, "start-well-384", defaults.StartWell384, "First 384-well destination (A1..B12)")
	flags.IntVar(&startColumn96, "start-column-96", defaults.StartColumn96, "First 96-well destination column (1..12)")

	_ = cmd.RegisterFlagCompletionFunc("start-well-384", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return planner.WellChoices(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.MarkFlagFilename("params", "yaml", "yml")
}

// resolveParams layers run parameters in increasing precedence: defaults,
// the default params file, --params, PLATERUN_* variables, explicit flags.
// It returns the parameter file that was read last, if any.
func resolveParams(cmd *cobra.Command) (config.RunParams, string, error) {
	params := config.DefaultParams()
	source := ""

	paths, err := config.DefaultPaths()
	if err != nil {
		return params, "", fmt.Errorf("failed to get config paths: %w", err)
	}
	if _, err := os.Stat(paths.Params); err == nil {
		params, err = config.LoadParams(paths.Params, params)
		if err != nil {
			return params, "", fmt.Errorf("%s: %w", paths.Params, err)
		}
		source = paths.Params
	} else if !errors.Is(err, os.ErrNotExist) {
		return params, "", fmt.Errorf("failed to stat %s: %w", paths.Params, err)
	}

	if paramsFile != "" {
		params, err = config.LoadParams(paramsFile, params)
		if err != nil {
			return params, "", fmt.Errorf("%s: %w", paramsFile, err)
		}
		source = paramsFile
	}

	if err := params.ApplyEnvOverrides(); err != nil {
		return params, "", err
	}

	flags := cmd.Flags()
	if flags.Changed("samples") {
		params.Samples = samples
	}
	if flags.Changed("cell-volume") {
		params.CellVolume = cellVolume
	}
	if flags.Changed("soc-volume") {
		params.SOCVolume = socVolume
	}
	if flags.Changed("start-well-384") {
		params.StartWell384 = startWell384
	}
	if flags.Changed("start-column-96") {
		params.StartColumn96 = startColumn96
	}

	logger.Debug("resolved run parameters")
	return params, source, nil
}

// newEngine creates a new engine with real implementations of all
// dependencies. The simulator stands in for the robot.
func newEngine(operator hardware.Operator) (*engine.Engine, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get config paths: %w", err)
	}

	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	catalog, err := liquidclass.Load()
	if err != nil {
		return nil, err
	}

	if operator == nil {
		operator = hardware.NewAutoOperator(logger)
	}

	fs := fsops.NewRealFS()
	store := runs.NewFileRunStore(fs, paths.Runs)
	driver := hardware.NewSimulator(logger)
	hasher := hash.NewSHA256Hasher()
	clk := &clock.RealClock{}

	return engine.New(driver, operator, store, hasher, clk, catalog, logger), nil
}

// outputJSON outputs a value as JSON.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
