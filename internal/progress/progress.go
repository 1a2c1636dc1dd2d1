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

// Package progress reads the scan_status.json file the external scanner
// writes while it populates the catalog. The engine never writes this file.
package progress

import (
	"encoding/json"
	"os"
	"time"
)

// Scanner statuses as reported upward. "idle" is synthesized by this reader
// when there is no file or the producer looks dead; the scanner itself only
// ever writes "running" and "completed".
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusIdle      = "idle"
)

// StaleAfter is the producer liveness window: a "running" status file not
// updated within it means the scanner died without finishing.
const StaleAfter = 30 * time.Second

// Report mirrors the scanner's progress file.
type Report struct {
	Scanned     int64  `json:"scanned"`
	Total       *int64 `json:"total,omitempty"`
	CurrentFile string `json:"current_file"`
	Status      string `json:"status"`
}

// Reader reads and interprets one progress file.
type Reader struct {
	path string
	now  func() time.Time
}

// NewReader returns a Reader for the given progress file path.
func NewReader(path string) *Reader {
	return &Reader{path: path, now: time.Now}
}

// Read returns the current scan report. A missing file yields an idle
// zero-value report; a "running" file whose mtime is older than StaleAfter is
// downgraded to idle.
func (r *Reader) Read() (*Report, error) {
	info, err := os.Stat(r.path)
	if os.IsNotExist(err) {
		return &Report{Status: StatusIdle}, nil
	}
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, err
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}

	if report.Status == StatusRunning && r.now().Sub(info.ModTime()) > StaleAfter {
		report.Status = StatusIdle
	}
	return &report, nil
}
