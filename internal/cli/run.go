package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/platerun/internal/engine"
	"github.com/danieljhkim/platerun/internal/hardware"
	"github.com/danieljhkim/platerun/internal/runs"
)

var (
	runYes    bool
	runDryRun bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a transformation run",
	Long: `Execute a transformation run against the robot driver.

The run pauses three times for the operator: to load the competent cells, to
take the 96-well plate out, and to put it back. Press Enter to resume or type
q to abort. With --yes every pause resumes automatically.

Every run that passes validation is recorded and can be inspected with
'platerun runs'.`,
	Example: `  platerun run --samples 48
  platerun run --params run.yaml --yes
  platerun run --dry-run --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, source, err := resolveParams(cmd)
		if err != nil {
			return err
		}

		var operator hardware.Operator
		if !runYes && !runDryRun {
			prompts := cmd.OutOrStdout()
			if jsonOutput {
				prompts = cmd.ErrOrStderr()
			}
			operator = hardware.NewTerminalOperator(cmd.InOrStdin(), prompts)
		}

		eng, err := newEngine(operator)
		if err != nil {
			return err
		}

		result, runErr := eng.Run(cmd.Context(), &engine.RunRequest{
			Params:     params,
			ParamsFile: source,
			DryRun:     runDryRun,
		})
		if result == nil {
			return runErr
		}

		if jsonOutput {
			if err := outputJSON(result.Record); err != nil {
				return err
			}
			return runErr
		}

		rec := result.Record
		fmt.Fprintln(out)
		switch rec.Status {
		case runs.StatusCompleted:
			PrintSuccess(fmt.Sprintf("Run %s completed", rec.ID))
		case runs.StatusPlanned:
			PrintSuccess(fmt.Sprintf("Dry run %s recorded", rec.ID))
		default:
			PrintWarning(fmt.Sprintf("Run %s %s", rec.ID, rec.Status))
		}
		PrintLabelValue("Samples", fmt.Sprint(rec.Params.Samples))
		PrintLabelValue("Steps", fmt.Sprintf("%d/%d", rec.Executed, rec.Steps))
		PrintLabelValue("Duration", rec.Duration().Round(time.Millisecond).String())
		return runErr
	},
}

func init() {
	addParamFlags(runCmd)
	runCmd.Flags().BoolVarP(&runYes, "yes", "y", false, "Resume every pause automatically")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Build and record the protocol without driving the robot")
}
