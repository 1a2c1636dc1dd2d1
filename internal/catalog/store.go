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
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/uptrace/bun"

	"github.com/HeloisaBadre/catalogador-inteligente/internal/common"
	"github.com/HeloisaBadre/catalogador-inteligente/internal/util"
)

// groupConcatSep separates values inside GROUP_CONCAT aggregates. Paths may
// contain commas, so the default separator is unusable.
const groupConcatSep = "|||"

// DuplicateGroup is one MD5 candidate group: files sharing a weak fingerprint,
// suspected but unconfirmed duplicates.
type DuplicateGroup struct {
	Fingerprint string   `json:"fingerprint"`
	Count       int      `json:"count"`
	FileIDs     []int64  `json:"file_ids"`
	Paths       []string `json:"paths"`
	WastedBytes int64    `json:"wasted_bytes"`
	AnyVerified bool     `json:"any_verified"`
}

// ExtensionStat is one row of the extension distribution.
type ExtensionStat struct {
	Extension string `json:"extension"`
	Count     int64  `json:"count"`
	TotalSize int64  `json:"total_size"`
}

// Stats is the overall catalog summary.
type Stats struct {
	TotalFiles   int64           `json:"total_files"`
	TotalSize    int64           `json:"total_size"`
	Extensions   []ExtensionStat `json:"extensions"`
	LargestFiles []FileRecord    `json:"largest_files"`
}

// SearchQuery filters the files table. Zero values mean "no filter".
type SearchQuery struct {
	Term      string
	Extension string
	MinSize   *int64
	MaxSize   *int64
}

// searchLimit bounds search results, matching the original API behavior.
const searchLimit = 100

// SamplePath returns one arbitrary path from the catalog, used for separator
// detection. Returns ErrEmptyCatalog when the catalog has zero records.
func (c *Catalog) SamplePath(ctx context.Context) (string, error) {
	var path string
	err := c.bun.NewRaw(`SELECT path FROM files LIMIT 1`).Scan(ctx, &path)
	if err == sql.ErrNoRows {
		return "", common.ErrEmptyCatalog
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

// CountFiles returns the number of cataloged records.
func (c *Catalog) CountFiles(ctx context.Context) (int64, error) {
	var count int64
	err := c.bun.NewRaw(`SELECT COUNT(*) FROM files`).Scan(ctx, &count)
	return count, err
}

// likeEscape escapes LIKE metacharacters in a literal string. '!' is the
// escape character: unlike backslash it can never be a path separator here.
func likeEscape(s string) string {
	s = strings.ReplaceAll(s, "!", "!!")
	s = strings.ReplaceAll(s, "%", "!%")
	return strings.ReplaceAll(s, "_", "!_")
}

// QueryPrefix returns every record whose path starts with prefix. This is the
// storage-level guarantee behind tree reconstruction: candidates for a parent
// are exactly the rows matching parent + sep as a literal prefix, so LIKE
// metacharacters in the prefix must not act as wildcards.
func (c *Catalog) QueryPrefix(ctx context.Context, prefix string) ([]FileRecord, error) {
	var models []FileRecordModel
	err := c.bun.NewSelect().
		Model(&models).
		Where("path LIKE ? ESCAPE '!'", likeEscape(prefix)+"%").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return toRecords(models), nil
}

// DuplicateGroups groups all records by MD5 and returns the groups with more
// than one member, ordered by wasted space. Wasted space assumes equal-hash
// records carry equal-sized content, so it is the group total minus one copy.
func (c *Catalog) DuplicateGroups(ctx context.Context) ([]DuplicateGroup, error) {
	rows, err := c.bun.QueryContext(ctx, `
		SELECT md5_hash,
		       COUNT(*) AS member_count,
		       SUM(size_bytes) - MAX(size_bytes) AS wasted,
		       GROUP_CONCAT(id, '|||') AS ids,
		       GROUP_CONCAT(path, '|||') AS paths,
		       MAX(sha256_verified) AS any_verified
		FROM files
		GROUP BY md5_hash
		HAVING member_count > 1
		ORDER BY wasted DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []DuplicateGroup
	for rows.Next() {
		var (
			g           DuplicateGroup
			ids, paths  string
			anyVerified int
		)
		if err := rows.Scan(&g.Fingerprint, &g.Count, &g.WastedBytes, &ids, &paths, &anyVerified); err != nil {
			return nil, err
		}
		g.AnyVerified = anyVerified != 0
		g.Paths = strings.Split(paths, groupConcatSep)
		for _, raw := range strings.Split(ids, groupConcatSep) {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, err
			}
			g.FileIDs = append(g.FileIDs, id)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// UpdateSHA256 persists a verified strong hash for one record. This is the
// engine's only write path: an idempotent update of exactly the two SHA256
// columns, keyed by id. Retries transient "database is locked" errors since
// the scanner may hold the write lock.
func (c *Catalog) UpdateSHA256(ctx context.Context, id int64, sha256Hex string) error {
	return util.Retry(ctx, func() error {
		_, err := c.bun.NewUpdate().
			Model((*FileRecordModel)(nil)).
			Set("sha256_hash = ?", sha256Hex).
			Set("sha256_verified = 1").
			Where("id = ?", id).
			Exec(ctx)
		return err
	}, util.DatabaseRetryOptions(ctx)...)
}

// Stats returns the overall catalog summary: totals, top extensions by size
// and the ten largest files.
func (c *Catalog) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	var totalSize sql.NullInt64
	err := c.bun.NewRaw(`SELECT COUNT(*), SUM(size_bytes) FROM files`).
		Scan(ctx, &stats.TotalFiles, &totalSize)
	if err != nil {
		return nil, err
	}
	stats.TotalSize = totalSize.Int64

	rows, err := c.bun.QueryContext(ctx, `
		SELECT extension, COUNT(*) AS count, SUM(size_bytes) AS total_size
		FROM files
		GROUP BY extension
		ORDER BY total_size DESC
		LIMIT 10`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			es  ExtensionStat
			ext sql.NullString
		)
		if err := rows.Scan(&ext, &es.Count, &es.TotalSize); err != nil {
			return nil, err
		}
		es.Extension = ext.String
		stats.Extensions = append(stats.Extensions, es)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var largest []FileRecordModel
	err = c.bun.NewSelect().
		Model(&largest).
		Order("size_bytes DESC").
		Limit(10).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	stats.LargestFiles = toRecords(largest)

	return stats, nil
}

// Search filters files by term (filename or path substring), extension and
// size range. Results are capped at 100 rows.
func (c *Catalog) Search(ctx context.Context, q SearchQuery) ([]FileRecord, error) {
	var models []FileRecordModel
	sel := c.bun.NewSelect().Model(&models)

	if q.Term != "" {
		like := "%" + q.Term + "%"
		sel = sel.Where("(filename LIKE ? OR path LIKE ?)", like, like)
	}
	if q.Extension != "" {
		sel = sel.Where("extension = ?", q.Extension)
	}
	if q.MinSize != nil {
		sel = sel.Where("size_bytes >= ?", *q.MinSize)
	}
	if q.MaxSize != nil {
		sel = sel.Where("size_bytes <= ?", *q.MaxSize)
	}

	if err := sel.Limit(searchLimit).Scan(ctx); err != nil {
		return nil, err
	}
	return toRecords(models), nil
}

// Largest returns the biggest files by size.
func (c *Catalog) Largest(ctx context.Context, limit int) ([]FileRecord, error) {
	var models []FileRecordModel
	err := c.bun.NewSelect().
		Model(&models).
		Order("size_bytes DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return toRecords(models), nil
}

// Oldest returns files ordered by ascending modification time.
func (c *Catalog) Oldest(ctx context.Context, limit int) ([]FileRecord, error) {
	var models []FileRecordModel
	err := c.bun.NewSelect().
		Model(&models).
		Order("modified_at ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return toRecords(models), nil
}

// FilesByExtensions returns files whose extension is in exts.
func (c *Catalog) FilesByExtensions(ctx context.Context, exts []string) ([]FileRecord, error) {
	var models []FileRecordModel
	err := c.bun.NewSelect().
		Model(&models).
		Where("extension IN (?)", bun.In(exts)).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return toRecords(models), nil
}

// FilesByExtensionsModifiedBefore returns files whose extension is in exts and
// whose modification time is older than cutoff (epoch seconds).
func (c *Catalog) FilesByExtensionsModifiedBefore(ctx context.Context, exts []string, cutoff int64) ([]FileRecord, error) {
	var models []FileRecordModel
	err := c.bun.NewSelect().
		Model(&models).
		Where("extension IN (?)", bun.In(exts)).
		Where("modified_at < ?", cutoff).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return toRecords(models), nil
}

// DistinctDriveRoots returns the distinct Windows drive roots ("X:\") present
// in the catalog, capped at limit.
func (c *Catalog) DistinctDriveRoots(ctx context.Context, limit int) ([]string, error) {
	rows, err := c.bun.QueryContext(ctx, `
		SELECT DISTINCT SUBSTR(path, 1, 3) AS root_path
		FROM files
		WHERE LENGTH(path) > 2 AND SUBSTR(path, 2, 2) = ':\'
		ORDER BY root_path
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roots []string
	for rows.Next() {
		var root string
		if err := rows.Scan(&root); err != nil {
			return nil, err
		}
		roots = append(roots, root)
	}
	return roots, rows.Err()
}

// Paths returns the bare path column for every record.
func (c *Catalog) Paths(ctx context.Context) ([]string, error) {
	rows, err := c.bun.QueryContext(ctx, `SELECT path FROM files`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// FilesUnderFolder returns files whose path contains folder as an interior
// path segment, under either separator convention. Segment bounds are
// approximate at the SQL level (the LIKE pattern); the classifier re-checks
// exact segment boundaries on the returned rows.
func (c *Catalog) FilesUnderFolder(ctx context.Context, folder string) ([]FileRecord, error) {
	var models []FileRecordModel
	err := c.bun.NewSelect().
		Model(&models).
		Where("(path LIKE ? OR path LIKE ?)",
			"%\\"+folder+"\\%",
			"%/"+folder+"/%").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return toRecords(models), nil
}
