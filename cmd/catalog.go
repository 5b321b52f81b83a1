package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleardwell/assess-cli/internal/catalog"
	"github.com/cleardwell/assess-cli/internal/model"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the metric catalog",
	Long: `Print every known metric with its thresholds and, where available,
the regional reference baseline. Thresholds reflect any overrides file
configured via catalog.overrides_path.`,
	RunE: runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(_ *cobra.Command, _ []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tNAME\tCATEGORY\tUNIT\tGOOD\tFAIR\tBASELINE")
	for _, def := range cat.All() {
		good, fair := thresholdCells(def)
		baseline := "-"
		if b, ok := catalog.Baseline(def.Key); ok {
			baseline = fmt.Sprintf("%g", b)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			def.Key, def.Name, def.Category, def.Unit, good, fair, baseline)
	}
	return w.Flush()
}

func thresholdCells(def model.MetricDefinition) (good, fair string) {
	switch def.Curve {
	case model.CurveTwoSidedIdeal:
		good = fmt.Sprintf("%g-%g", def.IdealLow, def.IdealHigh)
		fair = fmt.Sprintf("±%g", def.FairSpan)
	default:
		good = fmt.Sprintf("≤%g", def.GoodMax)
		fair = fmt.Sprintf("≤%g", def.FairMax)
	}
	return good, fair
}
