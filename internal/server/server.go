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

// Package server exposes the catalog engine over HTTP/JSON. Every request is
// computed independently against the current catalog snapshot; no handler
// holds session state.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/HeloisaBadre/catalogador-inteligente/internal/catalog"
	"github.com/HeloisaBadre/catalogador-inteligente/internal/config"
	"github.com/HeloisaBadre/catalogador-inteligente/internal/dupes"
	"github.com/HeloisaBadre/catalogador-inteligente/internal/export"
	"github.com/HeloisaBadre/catalogador-inteligente/internal/progress"
	"github.com/HeloisaBadre/catalogador-inteligente/internal/suggest"
	"github.com/HeloisaBadre/catalogador-inteligente/internal/tree"
)

// Server wires the engine components behind the HTTP surface.
type Server struct {
	cat        *catalog.Catalog
	tree       *tree.Builder
	detector   *dupes.Detector
	classifier *suggest.Classifier
	exporter   *export.Exporter
	progress   *progress.Reader
}

// New builds a Server over an open catalog using the given settings.
func New(cat *catalog.Catalog, cfg config.Settings) *Server {
	return &Server{
		cat:        cat,
		tree:       tree.NewBuilderWithRootCap(cat, cfg.RootCap),
		detector:   dupes.NewDetectorWithFS(cat, dupes.OSFilesystem(), cfg.HashWorkers),
		classifier: suggest.NewClassifierWithAge(cat, time.Duration(cfg.StaleLogAgeDays)*24*time.Hour),
		exporter:   export.NewExporter(cat),
		progress:   progress.NewReader(cfg.ProgressFile),
	}
}

// Handler returns the routed HTTP handler with CORS and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/duplicates", s.handleDuplicates)
	mux.HandleFunc("GET /api/largest", s.handleLargest)
	mux.HandleFunc("GET /api/oldest", s.handleOldest)
	mux.HandleFunc("GET /api/tree", s.handleTree)
	mux.HandleFunc("POST /api/verify", s.handleVerify)
	mux.HandleFunc("GET /api/suggestions", s.handleSuggestions)
	mux.HandleFunc("GET /api/export/json", s.handleExportJSON)
	mux.HandleFunc("GET /api/export/csv", s.handleExportCSV)
	mux.HandleFunc("GET /api/export/html", s.handleExportHTML)
	mux.HandleFunc("GET /api/progress", s.handleProgress)

	return withCORS(withRequestLog(mux))
}

// ListenAndServe runs the HTTP server until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("[API] listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// withRequestLog tags each request with a short id and logs it.
func withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()[:8]
		next.ServeHTTP(w, r)
		log.WithFields(log.Fields{
			"req":      reqID,
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start),
		}).Debug("[API] request")
	})
}

// withCORS allows the local frontend (any origin) to talk to the API.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Authorization")
		if r.Method == http.MethodOptions {
			return
		}
		next.ServeHTTP(w, r)
	})
}
