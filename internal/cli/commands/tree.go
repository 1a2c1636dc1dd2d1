package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/HeloisaBadre/catalogador-inteligente/internal/tree"
)

var treeCmd = &cobra.Command{
	Use:   "tree [path]",
	Short: "List one level of the catalog's directory tree",
	Long: `Expand one level of the directory hierarchy reconstructed from the
flat catalog. With no path, lists the catalog roots.

Examples:
  cataloger tree
  cataloger tree /home/user
  cataloger tree 'C:\Users'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	parent := ""
	if len(args) > 0 {
		parent = args[0]
	}

	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	builder := tree.NewBuilderWithRootCap(cat, settings.RootCap)
	level, err := builder.Level(cmd.Context(), parent)
	if err != nil {
		return err
	}

	if len(level.Children) == 0 {
		fmt.Println("(empty)")
		return nil
	}
	for _, child := range level.Children {
		if child.Type == tree.TypeDir {
			fmt.Printf("d %10s  %s\n", humanize.IBytes(uint64(child.SizeBytes)), child.Name)
		} else {
			fmt.Printf("f %10s  %s\n", humanize.IBytes(uint64(child.SizeBytes)), child.Name)
		}
	}
	return nil
}
