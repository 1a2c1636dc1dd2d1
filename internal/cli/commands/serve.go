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
	"os/signal"
	"syscall"

	"github.com/gofrs/flock"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HeloisaBadre/catalogador-inteligente/internal/config"
	"github.com/HeloisaBadre/catalogador-inteligente/internal/server"
)

var flagListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the catalog API server",
	Long: `Serve the catalog query API over HTTP.

The server is stateless per request and read-mostly: the only writes it ever
performs are SHA256 updates during duplicate verification. A lock file keyed
by the catalog database prevents two servers from sharing one catalog.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	lock := flock.New(config.LockPath(settings.Database))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire serve lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another server is already running for %s", settings.Database)
	}
	defer lock.Unlock()

	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	listen := settings.Listen
	if flagListen != "" {
		listen = flagListen
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Infof("[SERVE] catalog=%s listen=%s", settings.Database, listen)
	return server.New(cat, settings).ListenAndServe(ctx, listen)
}
