package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quartzlab/tephra/internal/timeunit"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <label>",
	Short: "Show the descriptor a unit label resolves to",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	label := args[0]
	d, err := timeunit.Resolve(label)
	if err != nil {
		return err
	}
	canonical, err := timeunit.CanonicalLabel(label)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "label:     %q\n", label)
	fmt.Fprintf(out, "canonical: %s\n", canonical)
	fmt.Fprintf(out, "scale:     10^%d yrs\n", d.ScaleExponent)
	fmt.Fprintf(out, "direction: %s\n", d.Direction)
	fmt.Fprintf(out, "datum:     %g\n", d.DatumYears)
	return nil
}
