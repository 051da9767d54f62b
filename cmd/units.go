package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/quartzlab/tephra/internal/timeunit"
)

var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "List the recognized time-unit families",
	Long: `Prints every recognized unit family with its descriptor: the power-of-ten
scale relating the base unit to years, the direction (prograde counts
forward in time, retrograde counts backward from the datum), and the
datum year the convention is anchored to.`,
	RunE: runUnits,
}

func init() {
	rootCmd.AddCommand(unitsCmd)
}

func runUnits(cmd *cobra.Command, _ []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LABEL\tSCALE\tDIRECTION\tDATUM\tSPELLINGS")
	for _, f := range timeunit.Families() {
		d := f.Descriptor
		fmt.Fprintf(w, "%s\t10^%d yrs\t%s\t%g\t%s\n",
			f.Canonical, d.ScaleExponent, d.Direction, d.DatumYears, strings.Join(f.Spellings, ", "))
	}
	return w.Flush()
}
