package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quartzlab/tephra/internal/catalog"
	"github.com/quartzlab/tephra/internal/config"
	"github.com/quartzlab/tephra/internal/dataset"
	"github.com/quartzlab/tephra/internal/ui"
)

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Write a stored series back out, optionally in another unit",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().String("to", "", "convert to this unit label before writing")
	exportCmd.Flags().String("out", "", "output file (default stdout)")
	exportCmd.Flags().String("format", "csv", "output format: csv or json")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	printer := ui.New(cfg.Verbose)

	to, _ := cmd.Flags().GetString("to")
	outPath, _ := cmd.Flags().GetString("out")
	format, _ := cmd.Flags().GetString("format")

	store, err := catalog.Open(cmd.Context(), cfg.CatalogPath)
	if err != nil {
		return err
	}
	defer store.Close()

	s, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	reordered := false
	if to != "" {
		converted, r, err := s.ConvertTimeUnit(to)
		if err != nil {
			return err
		}
		printer.Converted(s.ID, s.TimeUnit, to, converted.Len(), r)
		s, reordered = converted, r
	}

	out := cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "csv":
		return dataset.WriteCSV(out, s)
	case "json":
		return dataset.WriteJSON(out, s, reordered)
	default:
		return fmt.Errorf("unknown format %q (want csv or json)", format)
	}
}
