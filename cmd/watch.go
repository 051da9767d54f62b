package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/quartzlab/tephra/internal/catalog"
	"github.com/quartzlab/tephra/internal/config"
	"github.com/quartzlab/tephra/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Watch a drop directory and ingest new CSV files as they appear",
	Long: `Watches a directory with fsnotify. Every CSV file created in it is
ingested into the catalog, converted to the configured target unit when
one is set. A file that fails to ingest is logged and skipped; the
watcher keeps running until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("unit", "", "unit label for dropped CSV files (default: year CE)")
	watchCmd.Flags().String("target", "", "convert to this unit before storing (default: config target_unit)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
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

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	dir := args[0]
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	printer.Info(fmt.Sprintf("watching %s", dir))

	for {
		select {
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create == 0 {
				continue
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".csv") {
				continue
			}
			if err := ingestCSV(cmd, store, printer, event.Name, unit, target); err != nil {
				slog.Error("skipping dropped file",
					"file", event.Name,
					"error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("watcher error", "error", err)
		}
	}
}
