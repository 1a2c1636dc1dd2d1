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

package catalog

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Default busy_timeout in milliseconds. The scanner may still be writing while
// the engine reads, so waiting on locks beats failing fast.
const DefaultBusyTimeout = 30000

// EnvBusyTimeout overrides the SQLite busy_timeout (milliseconds).
const EnvBusyTimeout = "CATALOGER_BUSY_TIMEOUT"

// configBusyTimeout is the config-file busy_timeout, set after config load.
var configBusyTimeout int

// SetConfigBusyTimeout sets the config-based busy_timeout value.
// A value of 0 is ignored (use env var or default).
func SetConfigBusyTimeout(timeout int) {
	configBusyTimeout = timeout
}

// GetBusyTimeout returns the busy_timeout to apply.
// Priority: env > config file > default.
func GetBusyTimeout() int {
	if val := os.Getenv(EnvBusyTimeout); val != "" {
		if timeout, err := strconv.Atoi(val); err == nil && timeout > 0 {
			return timeout
		}
	}
	if configBusyTimeout > 0 {
		return configBusyTimeout
	}
	return DefaultBusyTimeout
}

// BuildDSN builds the SQLite DSN for a catalog database file.
func BuildDSN(path string) string {
	return fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=%d", path, GetBusyTimeout())
}

// Schema for the files table, matching what the scanner creates. The engine
// re-applies it on open so a fresh (never scanned) catalog is a valid empty
// catalog rather than a missing-table error.
const filesSchema = `
CREATE TABLE IF NOT EXISTS files (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    filename TEXT NOT NULL,
    extension TEXT,
    size_bytes INTEGER NOT NULL,
    created_at INTEGER,
    modified_at INTEGER,
    md5_hash TEXT NOT NULL,
    sha256_hash TEXT,
    sha256_verified INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_path ON files(path);
CREATE INDEX IF NOT EXISTS idx_filename ON files(filename);
CREATE INDEX IF NOT EXISTS idx_extension ON files(extension);
CREATE INDEX IF NOT EXISTS idx_size ON files(size_bytes);
CREATE INDEX IF NOT EXISTS idx_md5 ON files(md5_hash);

CREATE INDEX IF NOT EXISTS idx_dupe_check ON files(size_bytes, md5_hash);
`

// execStatements executes multiple SQL statements separated by semicolons.
// libsql driver doesn't support multi-statement Exec, so we split and execute individually.
func execStatements(db *sql.DB, sqlScript string) error {
	for _, stmt := range splitStatements(sqlScript) {
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// splitStatements splits a SQL script into individual statements
func splitStatements(script string) []string {
	var statements []string
	var current strings.Builder

	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")
		if strings.HasSuffix(trimmed, ";") {
			statements = append(statements, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if current.Len() > 0 {
		if stmt := strings.TrimSpace(current.String()); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}
