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

// Package export renders catalog reports in JSON, CSV and self-contained HTML.
package export

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/HeloisaBadre/catalogador-inteligente/internal/catalog"
)

// reportLimit caps the largest/oldest file lists in every format.
const reportLimit = 100

// Source is the slice of the catalog a report draws from.
type Source interface {
	Stats(ctx context.Context) (*catalog.Stats, error)
	DuplicateGroups(ctx context.Context) ([]catalog.DuplicateGroup, error)
	Largest(ctx context.Context, limit int) ([]catalog.FileRecord, error)
	Oldest(ctx context.Context, limit int) ([]catalog.FileRecord, error)
}

// Exporter renders reports over a catalog snapshot.
type Exporter struct {
	source Source
	now    func() time.Time
}

// NewExporter returns an Exporter over the given source.
func NewExporter(source Source) *Exporter {
	return &Exporter{source: source, now: time.Now}
}

// reportData is the shared snapshot all three formats render from.
type reportData struct {
	ReportID    string
	GeneratedAt time.Time
	Stats       *catalog.Stats
	Duplicates  []catalog.DuplicateGroup
	Largest     []catalog.FileRecord
	Oldest      []catalog.FileRecord
	TotalWasted int64
}

// snapshot gathers everything a report needs in one pass.
func (e *Exporter) snapshot(ctx context.Context) (*reportData, error) {
	stats, err := e.source.Stats(ctx)
	if err != nil {
		return nil, err
	}
	duplicates, err := e.source.DuplicateGroups(ctx)
	if err != nil {
		return nil, err
	}
	largest, err := e.source.Largest(ctx, reportLimit)
	if err != nil {
		return nil, err
	}
	oldest, err := e.source.Oldest(ctx, reportLimit)
	if err != nil {
		return nil, err
	}

	data := &reportData{
		ReportID:    uuid.NewString(),
		GeneratedAt: e.now(),
		Stats:       stats,
		Duplicates:  duplicates,
		Largest:     largest,
		Oldest:      oldest,
	}
	for _, g := range duplicates {
		data.TotalWasted += g.WastedBytes
	}
	return data, nil
}

// JSON renders the full report as indented JSON.
func (e *Exporter) JSON(ctx context.Context) ([]byte, error) {
	data, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	doc := map[string]any{
		"report_id":    data.ReportID,
		"generated_at": data.GeneratedAt.Format(time.RFC3339),
		"summary": map[string]any{
			"total_files":      data.Stats.TotalFiles,
			"total_size_bytes": data.Stats.TotalSize,
			"formatted_size":   FormatBytes(data.Stats.TotalSize),
		},
		"file_type_distribution": data.Stats.Extensions,
		"duplicates": map[string]any{
			"total_groups":       len(data.Duplicates),
			"total_wasted_space": data.TotalWasted,
			"groups":             data.Duplicates,
		},
		"largest_files": data.Largest,
		"oldest_files":  data.Oldest,
	}
	return json.MarshalIndent(doc, "", "  ")
}

// FormatBytes renders a byte count for humans.
func FormatBytes(n int64) string {
	if n <= 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(n))
}

// formatEpoch renders an epoch-second timestamp, or "" for the zero value
// (filesystems without the timestamp).
func formatEpoch(sec int64) string {
	if sec == 0 {
		return ""
	}
	return time.Unix(sec, 0).UTC().Format("2006-01-02 15:04:05")
}
