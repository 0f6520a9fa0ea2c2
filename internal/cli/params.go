package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/platerun/internal/config"
)

var paramsYAML bool

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Show resolved run parameters and their ranges",
	Long: `Show the run parameters after layering defaults, the default params file
(~/.platerun/params.yaml), --params, PLATERUN_* environment variables and flags.

Use --yaml to print a params file that can be edited and passed back with --params.`,
	Example: `  platerun params
  platerun params --samples 48 --yaml > run.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, source, err := resolveParams(cmd)
		if err != nil {
			return err
		}
		ranges := config.DefaultRanges()

		if paramsYAML {
			data, err := params.YAML()
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		}

		if jsonOutput {
			return outputJSON(map[string]interface{}{
				"params": params,
				"ranges": ranges,
				"source": source,
				"valid":  params.Validate() == nil,
			})
		}

		PrintSection("Run Parameters")
		if source != "" {
			PrintLabelValue("Source", source)
			fmt.Fprintln(out)
		}
		rows := [][]string{
			{"number_of_samples", fmt.Sprint(params.Samples), fmt.Sprintf("%d-%d", ranges.Samples.Min, ranges.Samples.Max)},
			{"bacteria_volume", fmt.Sprintf("%g µL", params.CellVolume), fmt.Sprintf("%g-%g µL", ranges.CellVolume.Min, ranges.CellVolume.Max)},
			{"soc_volume", fmt.Sprintf("%g µL", params.SOCVolume), fmt.Sprintf("%g-%g µL", ranges.SOCVolume.Min, ranges.SOCVolume.Max)},
			{"start_well_384", params.StartWell384, fmt.Sprintf("%s..%s", ranges.StartWell384[0], ranges.StartWell384[len(ranges.StartWell384)-1])},
			{"start_column_96", fmt.Sprint(params.StartColumn96), fmt.Sprintf("%d-%d", ranges.StartColumn96.Min, ranges.StartColumn96.Max)},
		}
		PrintTable([]string{"Parameter", "Value", "Range"}, rows)
		fmt.Fprintln(out)

		if err := params.Validate(); err != nil {
			PrintWarning(err.Error())
			return nil
		}
		for _, w := range params.Warnings() {
			PrintWarning(w)
		}
		PrintSuccess("Parameters are valid")
		return nil
	},
}

func init() {
	addParamFlags(paramsCmd)
	paramsCmd.Flags().BoolVar(&paramsYAML, "yaml", false, "Print the parameters as a params file")
}
