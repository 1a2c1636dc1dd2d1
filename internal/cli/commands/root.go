// Copyright 2025 Catalogador Inteligente Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands

import (
	"fmt"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HeloisaBadre/catalogador-inteligente/internal/catalog"
	"github.com/HeloisaBadre/catalogador-inteligente/internal/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Flags shared across subcommands.
var (
	flagConfig  string
	flagDB      string
	flagVerbose bool
)

// settings is the loaded configuration, available to every subcommand after
// PersistentPreRunE.
var settings config.Settings

// SetVersion sets the version info for --version flag
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = getVersionString()
}

// getVersionString returns the version string with build info
func getVersionString() string {
	buildDate := formatBuildDate(date)
	return fmt.Sprintf("%s (%s, commit: %s)", version, buildDate, commit)
}

// formatBuildDate converts epoch timestamp to readable date
func formatBuildDate(epoch string) string {
	ts, err := strconv.ParseInt(epoch, 10, 64)
	if err != nil {
		return epoch
	}
	return time.Unix(ts, 0).Format("2006-01-02")
}

var rootCmd = &cobra.Command{
	Use:   "cataloger",
	Short: "Query engine for a scanned file catalog",
	Long: `Analytical queries over a scanned file catalog: lazy directory trees,
two-phase duplicate detection (MD5 candidates, SHA256 confirmation),
cleanup suggestions and exportable reports. The catalog itself is
populated by the external scanner.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		if flagVerbose {
			log.SetLevel(log.DebugLevel)
		}

		if err := config.EnsureConfigDir(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		var err error
		settings, err = config.Load(flagConfig)
		if err != nil {
			return err
		}
		if flagDB != "" {
			settings.Database = flagDB
		}
		catalog.SetConfigBusyTimeout(settings.BusyTimeout)
		return nil
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate("cataloger version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "settings file (default: config dir settings.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "catalog database path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

// openCatalog opens the configured catalog database.
func openCatalog() (*catalog.Catalog, error) {
	return catalog.Open(settings.Database)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
