package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/platerun/internal/engine"
	"github.com/danieljhkim/platerun/internal/hash"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show where each sample column goes",
	Long: `Compute the destination plan for a run without touching the robot.

Each column of 8 samples is transformed in one 384-well position and recovered
in one 96-well column. The plan lists both in processing order.`,
	Example: `  platerun plan
  platerun plan --samples 48 --start-well-384 B3
  platerun plan --params run.yaml --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, _, err := resolveParams(cmd)
		if err != nil {
			return err
		}

		eng, err := newEngine(nil)
		if err != nil {
			return err
		}

		result, err := eng.Plan(cmd.Context(), &engine.PlanRequest{Params: params})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSection("Destination Plan")
		PrintLabelValue("Samples", fmt.Sprint(result.Params.Samples))
		PrintLabelValue("Columns", fmt.Sprint(result.Plan.NumColumns))
		PrintLabelValue("96-well columns", joinInts(result.Plan.Columns96))
		PrintLabelValue("384-well wells", strings.Join(result.Plan.WellLabels(), ", "))
		PrintLabelValue("Fingerprint", hash.Short(result.Fingerprint))

		if len(result.Warnings) > 0 {
			fmt.Fprintln(out)
			for _, w := range result.Warnings {
				PrintWarning(w)
			}
		}

		fmt.Fprintln(out)
		rows := make([][]string, 0, result.Plan.NumColumns)
		wells := result.Plan.WellLabels()
		for i, col := range result.Plan.Columns96 {
			rows = append(rows, []string{fmt.Sprint(i + 1), wells[i], fmt.Sprintf("column %d", col)})
		}
		PrintTable([]string{"#", "384 well", "96 column"}, rows)
		return nil
	},
}

func init() {
	addParamFlags(planCmd)
}
