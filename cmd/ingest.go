package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quartzlab/tephra/internal/catalog"
	"github.com/quartzlab/tephra/internal/config"
	"github.com/quartzlab/tephra/internal/dataset"
	"github.com/quartzlab/tephra/internal/ui"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file.csv | collection.toml> ...",
	Short: "Load sample files or a collection manifest into the catalog",
	Long: `Loads one or more CSV sample files, or a TOML collection manifest, into
the catalog database. With --target (or a configured target_unit) every
series is converted to that unit before it is stored; a manifest's own
time_unit is applied first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().String("unit", "", "unit label for CSV inputs (default: year CE)")
	ingestCmd.Flags().String("target", "", "convert to this unit before storing (default: config target_unit)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	printer := ui.New(cfg.Verbose)

	unit, _ := cmd.Flags().GetString("unit")
	target, _ := cmd.Flags().GetString("target")
	if target == "" {
		target = cfg.TargetUnit
	}

	store, err := catalog.Open(cmd.Context(), cfg.CatalogPath)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, path := range args {
		if strings.EqualFold(filepath.Ext(path), ".toml") {
			if err := ingestManifest(cmd, store, printer, path, target); err != nil {
				return err
			}
			continue
		}
		if err := ingestCSV(cmd, store, printer, path, unit, target); err != nil {
			return err
		}
	}
	return nil
}

func ingestCSV(cmd *cobra.Command, store *catalog.Store, printer *ui.Printer, path, unit, target string) error {
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
	s.TimeUnit = unit
	printer.IngestReport(s.ID, report)

	if target != "" {
		converted, reordered, err := s.ConvertTimeUnit(target)
		if err != nil {
			return err
		}
		if reordered {
			printer.Reordered(s.ID)
		}
		s = converted
	}

	id, err := store.Save(cmd.Context(), s)
	if err != nil {
		return err
	}
	printer.Stored(id)
	return nil
}

func ingestManifest(cmd *cobra.Command, store *catalog.Store, printer *ui.Printer, path, target string) error {
	c, results, reports, err := dataset.LoadCollection(path)
	if err != nil {
		return err
	}
	for i, r := range reports {
		printer.IngestReport(c.Members[i].ID, r)
	}
	printer.MemberResults(results)

	// The manifest's own shared unit is applied by LoadCollection; an
	// explicit target converts on top of it.
	if target != "" && target != c.TimeUnit {
		converted, results, err := c.ConvertTimeUnit(target)
		if err != nil {
			return err
		}
		printer.MemberResults(results)
		c = converted
	}

	ids, err := store.SaveCollection(cmd.Context(), c)
	if err != nil {
		return err
	}
	for _, id := range ids {
		printer.Stored(id)
	}
	return nil
}
