package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/quartzlab/tephra/internal/catalog"
	"github.com/quartzlab/tephra/internal/config"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the series stored in the catalog",
	RunE:  runList,
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one stored series",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a series from the catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(rmCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	store, err := catalog.Open(cmd.Context(), cfg.CatalogPath)
	if err != nil {
		return err
	}
	defer store.Close()

	summaries, err := store.List(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tUNIT\tPOINTS\tUPDATED")
	for _, sm := range summaries {
		unit := sm.TimeUnit
		if unit == "" {
			unit = "(default)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			sm.ID, sm.Name, unit, sm.Points, sm.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	store, err := catalog.Open(cmd.Context(), cfg.CatalogPath)
	if err != nil {
		return err
	}
	defer store.Close()

	s, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "id:        %s\n", s.ID)
	if s.Name != "" {
		fmt.Fprintf(out, "name:      %s\n", s.Name)
	}
	unit := s.TimeUnit
	if unit == "" {
		unit = "(default: year CE)"
	}
	fmt.Fprintf(out, "time unit: %s\n", unit)
	if s.ValueName != "" || s.ValueUnit != "" {
		fmt.Fprintf(out, "value:     %s [%s]\n", s.ValueName, s.ValueUnit)
	}
	fmt.Fprintf(out, "points:    %d\n", s.Len())
	if s.Len() > 0 {
		fmt.Fprintf(out, "range:     %g … %g\n", s.Time[0], s.Time[s.Len()-1])
	}
	return nil
}

func runRm(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	store, err := catalog.Open(cmd.Context(), cfg.CatalogPath)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Delete(cmd.Context(), args[0])
}
