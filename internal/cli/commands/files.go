package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/HeloisaBadre/catalogador-inteligente/internal/export"
)

var flagFilesLimit int

var largestCmd = &cobra.Command{
	Use:   "largest",
	Short: "List the largest files in the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := openCatalog()
		if err != nil {
			return err
		}
		defer cat.Close()

		files, err := cat.Largest(cmd.Context(), flagFilesLimit)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Printf("%10s  %s\n", export.FormatBytes(f.SizeBytes), f.Path)
		}
		return nil
	},
}

var oldestCmd = &cobra.Command{
	Use:   "oldest",
	Short: "List the oldest files in the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := openCatalog()
		if err != nil {
			return err
		}
		defer cat.Close()

		files, err := cat.Oldest(cmd.Context(), flagFilesLimit)
		if err != nil {
			return err
		}
		for _, f := range files {
			modified := "unknown"
			if f.ModifiedAt > 0 {
				modified = time.Unix(f.ModifiedAt, 0).UTC().Format("2006-01-02")
			}
			fmt.Printf("%s  %10s  %s\n", modified, export.FormatBytes(f.SizeBytes), f.Path)
		}
		return nil
	},
}

func init() {
	largestCmd.Flags().IntVarP(&flagFilesLimit, "limit", "n", 20, "number of files to list")
	oldestCmd.Flags().IntVar(&flagFilesLimit, "limit", 20, "number of files to list")
	rootCmd.AddCommand(largestCmd)
	rootCmd.AddCommand(oldestCmd)
}
