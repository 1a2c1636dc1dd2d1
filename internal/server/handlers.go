package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/HeloisaBadre/catalogador-inteligente/internal/catalog"
)

// writeJSON writes v as a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("[API] encode response: %v", err)
	}
}

// writeError surfaces a request-level failure. Storage errors land here; they
// are never retried internally.
func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "Smart Cataloger Backend",
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.cat.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := catalog.SearchQuery{
		Term:      r.URL.Query().Get("query"),
		Extension: r.URL.Query().Get("extension"),
	}
	if raw := r.URL.Query().Get("min_size"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid min_size", http.StatusBadRequest)
			return
		}
		q.MinSize = &n
	}
	if raw := r.URL.Query().Get("max_size"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid max_size", http.StatusBadRequest)
			return
		}
		q.MaxSize = &n
	}

	records, err := s.cat.Search(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if records == nil {
		records = []catalog.FileRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleDuplicates(w http.ResponseWriter, r *http.Request) {
	groups, err := s.detector.Candidates(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if groups == nil {
		groups = []catalog.DuplicateGroup{}
	}
	writeJSON(w, http.StatusOK, groups)
}

// limitParam parses ?limit= with a default, capped at 1000.
func limitParam(r *http.Request, def int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	if n > 1000 {
		return 1000
	}
	return n
}

func (s *Server) handleLargest(w http.ResponseWriter, r *http.Request) {
	records, err := s.cat.Largest(r.Context(), limitParam(r, 100))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if records == nil {
		records = []catalog.FileRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleOldest(w http.ResponseWriter, r *http.Request) {
	records, err := s.cat.Oldest(r.Context(), limitParam(r, 100))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if records == nil {
		records = []catalog.FileRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	level, err := s.tree.Level(r.Context(), r.URL.Query().Get("path"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, level)
}

// verifyRequest is the phase-2 request body: one MD5 candidate group's
// members, identified by (id, path) pairs.
type verifyRequest struct {
	Fingerprint string   `json:"fingerprint"`
	FileIDs     []int64  `json:"file_ids"`
	FilePaths   []string `json:"file_paths"`
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if len(req.FileIDs) == 0 || len(req.FileIDs) != len(req.FilePaths) {
		http.Error(w, "file_ids and file_paths must be non-empty and equal length", http.StatusBadRequest)
		return
	}

	result, err := s.detector.VerifyCandidates(r.Context(), req.Fingerprint, req.FileIDs, req.FilePaths)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := s.classifier.Suggestions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestions)
}

func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	data, err := s.exporter.JSON(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="catalog-report.json"`)
	w.Write(data)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	data, err := s.exporter.CSV(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="catalog-report.csv"`)
	w.Write(data)
}

func (s *Server) handleExportHTML(w http.ResponseWriter, r *http.Request) {
	data, err := s.exporter.HTML(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	report, err := s.progress.Read()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
