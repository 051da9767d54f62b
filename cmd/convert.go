package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quartzlab/tephra/internal/config"
	"github.com/quartzlab/tephra/internal/dataset"
	"github.com/quartzlab/tephra/internal/ui"
)

var convertCmd = &cobra.Command{
	Use:   "convert <file.csv>",
	Short: "Convert a CSV time series to another time unit",
	Long: `Reads a two-column (time,value) CSV, converts its time axis from the
--from unit to the --to unit, and writes the result to stdout or --out.
When the conversion reverses the axis to keep it ascending, the bound
values are permuted in lockstep and the reversal is reported.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("from", "", "current unit label (default: year CE)")
	convertCmd.Flags().String("to", "", "target unit label (required)")
	convertCmd.Flags().String("out", "", "output file (default stdout)")
	convertCmd.Flags().String("format", "csv", "output format: csv or json")
	_ = convertCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	printer := ui.New(cfg.Verbose)

	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	outPath, _ := cmd.Flags().GetString("out")
	format, _ := cmd.Flags().GetString("format")

	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	s, report, err := dataset.ReadCSV(f)
	if err != nil {
		return err
	}
	s.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	s.TimeUnit = from
	printer.IngestReport(s.ID, report)

	converted, reordered, err := s.ConvertTimeUnit(to)
	if err != nil {
		return err
	}
	printer.Converted(s.ID, from, to, converted.Len(), reordered)

	out := cmd.OutOrStdout()
	if outPath != "" {
		of, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer of.Close()
		out = of
	}

	switch format {
	case "csv":
		return dataset.WriteCSV(out, converted)
	case "json":
		return dataset.WriteJSON(out, converted, reordered)
	default:
		return fmt.Errorf("unknown format %q (want csv or json)", format)
	}
}
