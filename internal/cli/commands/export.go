package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/HeloisaBadre/catalogador-inteligente/internal/export"
	"github.com/HeloisaBadre/catalogador-inteligente/internal/progress"
)

var flagExportOut string

var exportCmd = &cobra.Command{
	Use:   "export <json|csv|html>",
	Short: "Export a catalog report",
	Long: `Render a full catalog report (summary, type distribution, largest and
oldest files, duplicate groups) in the requested format.

Examples:
  cataloger export json
  cataloger export html -o report.html`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "csv", "html"},
	RunE:      runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOut, "output", "o", "", "write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	exporter := export.NewExporter(cat)

	var data []byte
	switch args[0] {
	case "json":
		data, err = exporter.JSON(cmd.Context())
	case "csv":
		data, err = exporter.CSV(cmd.Context())
	case "html":
		data, err = exporter.HTML(cmd.Context())
	default:
		return fmt.Errorf("unknown format %q, want json, csv or html", args[0])
	}
	if err != nil {
		return err
	}

	if flagExportOut == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(flagExportOut, data, 0644)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show scanner progress",
	Long: `Read the external scanner's progress file. Reports idle when no scan
has run or the scanner stopped updating its status.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	report, err := progress.NewReader(settings.ProgressFile).Read()
	if err != nil {
		return err
	}

	fmt.Printf("Status: %s\n", report.Status)
	if report.Status == progress.StatusIdle {
		return nil
	}
	if report.Total != nil {
		fmt.Printf("Scanned: %d / %d\n", report.Scanned, *report.Total)
	} else {
		fmt.Printf("Scanned: %d\n", report.Scanned)
	}
	if report.CurrentFile != "" {
		fmt.Printf("Current: %s\n", report.CurrentFile)
	}
	return nil
}
