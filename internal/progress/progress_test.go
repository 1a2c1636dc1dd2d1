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

package progress

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStatus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scan_status.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRead_MissingFile(t *testing.T) {
	t.Parallel()
	r := NewReader(filepath.Join(t.TempDir(), "scan_status.json"))

	report, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, StatusIdle, report.Status)
	assert.Equal(t, int64(0), report.Scanned)
	assert.Nil(t, report.Total)
}

func TestRead_Running(t *testing.T) {
	t.Parallel()
	path := writeStatus(t, `{"scanned": 1500, "total": 10000, "current_file": "C:\\docs\\a.txt", "status": "running"}`)
	r := NewReader(path)

	report, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, report.Status)
	assert.Equal(t, int64(1500), report.Scanned)
	require.NotNil(t, report.Total)
	assert.Equal(t, int64(10000), *report.Total)
	assert.Equal(t, `C:\docs\a.txt`, report.CurrentFile)
}

func TestRead_UnknownTotal(t *testing.T) {
	t.Parallel()
	path := writeStatus(t, `{"scanned": 42, "current_file": "/tmp/x", "status": "running"}`)
	r := NewReader(path)

	report, err := r.Read()
	require.NoError(t, err)
	assert.Nil(t, report.Total)
}

func TestRead_StaleRunningDowngradedToIdle(t *testing.T) {
	t.Parallel()
	path := writeStatus(t, `{"scanned": 99, "status": "running"}`)
	old := time.Now().Add(-2 * time.Minute)
	require.NoError(t, os.Chtimes(path, old, old))
	r := NewReader(path)

	report, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, StatusIdle, report.Status)
	// The counters are still whatever the scanner last wrote.
	assert.Equal(t, int64(99), report.Scanned)
}

func TestRead_StaleCompletedStaysCompleted(t *testing.T) {
	t.Parallel()
	path := writeStatus(t, `{"scanned": 10000, "total": 10000, "status": "completed"}`)
	old := time.Now().Add(-24 * time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))
	r := NewReader(path)

	report, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, report.Status)
}

func TestRead_MalformedJSON(t *testing.T) {
	t.Parallel()
	path := writeStatus(t, `{not json`)
	r := NewReader(path)

	_, err := r.Read()
	assert.Error(t, err)
}
