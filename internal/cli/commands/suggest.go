package commands

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/HeloisaBadre/catalogador-inteligente/internal/suggest"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest cleanup candidates",
	Long: `Run the heuristic rules over the catalog: temp files, stale logs and
backups, dependency/build folders and cache folders. Suggestions are
advisory; nothing is deleted.`,
	Args: cobra.NoArgs,
	RunE: runSuggest,
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	classifier := suggest.NewClassifierWithAge(cat,
		time.Duration(settings.StaleLogAgeDays)*24*time.Hour)
	suggestions, err := classifier.Suggestions(cmd.Context())
	if err != nil {
		return err
	}
	if len(suggestions) == 0 {
		fmt.Println("No cleanup suggestions.")
		return nil
	}

	var total int64
	for _, s := range suggestions {
		fmt.Printf("%-7s %10s  %s\n    %s\n",
			s.Action, humanize.IBytes(uint64(s.SizeBytes)), s.Path, s.Reason)
		total += s.SizeBytes
	}
	fmt.Printf("\n%d suggestions, %s total\n", len(suggestions), humanize.IBytes(uint64(total)))
	return nil
}
