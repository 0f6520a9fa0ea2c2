package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/platerun/internal/engine"
)

var protocolCmd = &cobra.Command{
	Use:   "protocol",
	Short: "Print the resolved instruction list",
	Long: `Resolve the full instruction list of a run: deck layout, liquid loads,
temperature hold, operator pauses and every distribute and transfer.

With --json the output includes the liquid-class records of each step.`,
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

		proto, err := eng.Protocol(cmd.Context(), &engine.PlanRequest{Params: params})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(proto)
		}

		PrintSection("Deck")
		rows := make([][]string, 0, len(proto.Deck.Modules)+len(proto.Deck.Labware))
		for _, m := range proto.Deck.Modules {
			rows = append(rows, []string{m.Slot, m.Handle, m.Model})
		}
		for _, item := range proto.Deck.Labware {
			rows = append(rows, []string{proto.Deck.Location(item.Handle), item.Handle, item.LoadName})
		}
		PrintTable([]string{"Slot", "Handle", "Definition"}, rows)
		fmt.Fprintln(out)
		for _, p := range proto.Deck.Pipettes {
			PrintLabelValue(p.Mount+" pipette", p.Model)
		}

		PrintSection(fmt.Sprintf("Steps (%s)", PrintCount(len(proto.Steps), "step", "steps")))
		items := make([]string, len(proto.Steps))
		for i, step := range proto.Steps {
			items[i] = step.Describe()
		}
		PrintNumberedList(items, 1)
		return nil
	},
}

func init() {
	addParamFlags(protocolCmd)
}
