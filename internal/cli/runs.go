package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/platerun/internal/hash"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect recorded runs",
	Long:  `List, show and delete recorded runs. Runs are referenced by ID or unique ID prefix.`,
}

var runsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List recorded runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(nil)
		if err != nil {
			return err
		}

		list, err := eng.ListRuns(cmd.Context())
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(list)
		}

		PrintSection("Runs")
		if len(list) == 0 {
			PrintEmptyState("No runs recorded")
			return nil
		}

		rows := make([][]string, 0, len(list))
		for _, rec := range list {
			rows = append(rows, []string{
				shortID(rec.ID),
				rec.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				rec.Status,
				fmt.Sprint(rec.Params.Samples),
				fmt.Sprintf("%d/%d", rec.Executed, rec.Steps),
			})
		}
		PrintTable([]string{"ID", "Created", "Status", "Samples", "Steps"}, rows)
		fmt.Fprintln(out)
		PrintInfo(PrintCount(len(list), "run", "runs"))
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run>",
	Short: "Show a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(nil)
		if err != nil {
			return err
		}

		rec, err := eng.ShowRun(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(rec)
		}

		PrintSection(fmt.Sprintf("Run %s", rec.ID))
		PrintLabelValueWithColor("Status", rec.Status, statusColor(rec.Status))
		PrintLabelValue("Created", rec.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		if !rec.FinishedAt.IsZero() {
			PrintLabelValue("Duration", rec.Duration().Round(time.Millisecond).String())
		}
		PrintLabelValue("Steps", fmt.Sprintf("%d/%d", rec.Executed, rec.Steps))
		PrintLabelValue("Fingerprint", hash.Short(rec.Fingerprint))
		if rec.ParamsFile != "" {
			PrintLabelValue("Params file", fmt.Sprintf("%s (%s)", rec.ParamsFile, hash.Short(rec.ParamsFileHash)))
		}
		if rec.Error != "" {
			PrintLabelValueWithColor("Error", rec.Error, errorColor)
		}

		PrintSection("Parameters")
		PrintLabelValue("number_of_samples", fmt.Sprint(rec.Params.Samples))
		PrintLabelValue("bacteria_volume", fmt.Sprintf("%g µL", rec.Params.CellVolume))
		PrintLabelValue("soc_volume", fmt.Sprintf("%g µL", rec.Params.SOCVolume))
		PrintLabelValue("start_well_384", rec.Params.StartWell384)
		PrintLabelValue("start_column_96", fmt.Sprint(rec.Params.StartColumn96))

		if rec.Plan != nil {
			PrintSection("Plan")
			PrintLabelValue("96-well columns", joinInts(rec.Plan.Columns96))
			PrintLabelValue("384-well wells", strings.Join(rec.Plan.WellLabels(), ", "))
		}
		return nil
	},
}

var runsRmCmd = &cobra.Command{
	Use:   "rm <run>...",
	Short: "Delete recorded runs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(nil)
		if err != nil {
			return err
		}

		deleted := make([]string, 0, len(args))
		for _, ref := range args {
			id, err := eng.DeleteRun(cmd.Context(), ref)
			if err != nil {
				return err
			}
			deleted = append(deleted, id)
		}

		if jsonOutput {
			return outputJSON(map[string]interface{}{"deleted": deleted})
		}

		for _, id := range deleted {
			PrintSuccess(fmt.Sprintf("Deleted run %s", id))
		}
		return nil
	},
}

// shortID trims a UUID to its first group.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

func init() {
	runsCmd.AddCommand(runsLsCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsRmCmd)
}
