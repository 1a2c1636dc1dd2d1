package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/HeloisaBadre/catalogador-inteligente/internal/catalog"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog summary statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	stats, err := cat.Stats(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Files: %d\n", stats.TotalFiles)
	fmt.Printf("Total size: %s\n", humanize.IBytes(uint64(stats.TotalSize)))

	if len(stats.Extensions) > 0 {
		fmt.Println("\nTop extensions by size:")
		for _, ext := range stats.Extensions {
			name := ext.Extension
			if name == "" {
				name = "(none)"
			}
			fmt.Printf("  %-12s %8d files  %10s\n", name, ext.Count, humanize.IBytes(uint64(ext.TotalSize)))
		}
	}
	if len(stats.LargestFiles) > 0 {
		fmt.Println("\nLargest files:")
		for _, f := range stats.LargestFiles {
			fmt.Printf("  %10s  %s\n", humanize.IBytes(uint64(f.SizeBytes)), f.Path)
		}
	}
	return nil
}

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Search the catalog by name, extension and size",
	Long: `Search files by a filename/path substring, optionally filtered by
extension and size range. Results are capped at 100.

Examples:
  cataloger search report
  cataloger search --ext pdf
  cataloger search backup --min-size 1048576`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

var (
	flagSearchExt     string
	flagSearchMinSize int64
	flagSearchMaxSize int64
)

func init() {
	searchCmd.Flags().StringVar(&flagSearchExt, "ext", "", "filter by extension")
	searchCmd.Flags().Int64Var(&flagSearchMinSize, "min-size", 0, "minimum size in bytes")
	searchCmd.Flags().Int64Var(&flagSearchMaxSize, "max-size", 0, "maximum size in bytes")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	q := catalog.SearchQuery{Extension: flagSearchExt}
	if len(args) > 0 {
		q.Term = args[0]
	}
	if cmd.Flags().Changed("min-size") {
		q.MinSize = &flagSearchMinSize
	}
	if cmd.Flags().Changed("max-size") {
		q.MaxSize = &flagSearchMaxSize
	}

	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	records, err := cat.Search(cmd.Context(), q)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	for _, rec := range records {
		fmt.Printf("%10s  %s\n", humanize.IBytes(uint64(rec.SizeBytes)), rec.Path)
	}
	return nil
}
