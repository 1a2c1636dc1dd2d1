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

// Package catalog owns the files table produced by the external scanner and
// exposes the read queries plus the single write operation (SHA256 update)
// that the query engine is allowed to perform.
package catalog

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/tursodatabase/go-libsql"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/HeloisaBadre/catalogador-inteligente/internal/common"
)

// Catalog is a handle to one SQLite catalog database.
type Catalog struct {
	path string
	db   *sql.DB
	bun  *bun.DB
}

// execPragma runs a PRAGMA statement using Query (not Exec) because libsql
// returns rows for PRAGMA statements. The result rows are drained and closed.
func execPragma(db *sql.DB, pragma string) error {
	rows, err := db.Query(pragma)
	if err != nil {
		return err
	}
	rows.Close()
	return nil
}

// applyPragmas sets essential PRAGMAs after opening a libsql connection.
// libsql ignores DSN-based _pragma=value parameters, so all PRAGMAs must be
// set explicitly after the connection is opened.
func applyPragmas(db *sql.DB) error {
	// Busy timeout MUST be set first — journal_mode=WAL below needs exclusive
	// access and will wait for locks instead of failing immediately.
	if err := execPragma(db, fmt.Sprintf("PRAGMA busy_timeout = %d", GetBusyTimeout())); err != nil {
		return fmt.Errorf("failed to set busy_timeout: %w", err)
	}

	// WAL mode lets the engine read while the scanner is still writing.
	if err := execPragma(db, "PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to set journal_mode=WAL: %w", err)
	}

	if err := execPragma(db, "PRAGMA synchronous=NORMAL"); err != nil {
		return fmt.Errorf("failed to set synchronous=NORMAL: %w", err)
	}

	if err := execPragma(db, "PRAGMA temp_store=MEMORY"); err != nil {
		return fmt.Errorf("failed to set temp_store=MEMORY: %w", err)
	}

	// 64MB page cache, same as the scanner uses when it writes the catalog.
	if err := execPragma(db, "PRAGMA cache_size = -64000"); err != nil {
		return fmt.Errorf("failed to set cache_size: %w", err)
	}

	return nil
}

// Open opens (or creates, for a never-scanned path) a catalog database.
// Failures here mean the storage itself is unreachable.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("libsql", BuildDSN(path))
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", common.ErrStorageUnavailable, path, err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}

	// Ensure the files table exists so an unscanned catalog behaves as an
	// empty catalog instead of erroring on every query.
	if err := execStatements(db, filesSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ensure schema: %v", common.ErrStorageUnavailable, err)
	}

	return &Catalog{
		path: path,
		db:   db,
		bun:  bun.NewDB(db, sqlitedialect.New()),
	}, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.bun.Close()
}

// Path returns the catalog database file path.
func (c *Catalog) Path() string {
	return c.path
}

// DB exposes the bun handle for callers that need raw query access.
func (c *Catalog) DB() *bun.DB {
	return c.bun
}

// InsertRecords bulk-inserts file records in one transaction. The scanner is
// the production writer; the engine itself never calls this. It exists for
// seeding catalogs in tests and offline tooling, mirroring the scanner's
// INSERT OR REPLACE batch semantics.
func (c *Catalog) InsertRecords(ctx context.Context, records []FileRecordModel) error {
	if len(records) == 0 {
		return nil
	}
	return c.bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for i := range records {
			_, err := tx.NewInsert().
				Model(&records[i]).
				On("CONFLICT (path) DO UPDATE").
				Set("filename = EXCLUDED.filename").
				Set("extension = EXCLUDED.extension").
				Set("size_bytes = EXCLUDED.size_bytes").
				Set("created_at = EXCLUDED.created_at").
				Set("modified_at = EXCLUDED.modified_at").
				Set("md5_hash = EXCLUDED.md5_hash").
				Exec(ctx)
			if err != nil {
				return err
			}
		}
		return nil
	})
}
