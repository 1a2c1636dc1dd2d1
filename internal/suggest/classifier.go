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

// Package suggest scans the catalog for cleanup opportunities with a small
// fixed set of independent rules. Rules only read already-loaded fields and
// never fail; a path that matches nothing simply produces no suggestion.
package suggest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/HeloisaBadre/catalogador-inteligente/internal/catalog"
)

// Suggested actions.
const (
	ActionDelete  = "delete"
	ActionArchive = "archive"
	ActionIgnore  = "ignore"
)

// Suggestion target types.
const (
	TargetFile   = "file"
	TargetFolder = "folder"
)

// DefaultStaleAge is how old a log/backup file must be before the archive
// rule fires.
const DefaultStaleAge = 30 * 24 * time.Hour

// Fixed rule inputs. All current rules are exact matches (confidence 1.0);
// the confidence field reserves room for probabilistic rules later.
var (
	tempExtensions  = []string{"tmp", "temp", "chk"}
	staleExtensions = []string{"log", "bak", "old", "dmp"}
	devFolders      = []string{"node_modules", "venv", ".venv", "target", "dist", "build"}
	cacheFolders    = []string{"__pycache__", ".cache", ".pytest_cache", ".mypy_cache"}
)

// Suggestion is one cleanup recommendation.
type Suggestion struct {
	Path       string  `json:"path"`
	Type       string  `json:"type"`
	Reason     string  `json:"reason"`
	Action     string  `json:"action"`
	SizeBytes  int64   `json:"size_bytes"`
	Confidence float64 `json:"confidence"`
}

// Store is the slice of the catalog the classifier needs.
type Store interface {
	FilesByExtensions(ctx context.Context, exts []string) ([]catalog.FileRecord, error)
	FilesByExtensionsModifiedBefore(ctx context.Context, exts []string, cutoff int64) ([]catalog.FileRecord, error)
	FilesUnderFolder(ctx context.Context, folder string) ([]catalog.FileRecord, error)
}

// Classifier runs the rule set against a catalog snapshot.
type Classifier struct {
	store    Store
	staleAge time.Duration
	now      func() time.Time
}

// NewClassifier returns a Classifier with the default stale-log age.
func NewClassifier(store Store) *Classifier {
	return &Classifier{store: store, staleAge: DefaultStaleAge, now: time.Now}
}

// NewClassifierWithAge returns a Classifier with an explicit stale-log age.
func NewClassifierWithAge(store Store, staleAge time.Duration) *Classifier {
	if staleAge <= 0 {
		staleAge = DefaultStaleAge
	}
	return &Classifier{store: store, staleAge: staleAge, now: time.Now}
}

// Suggestions runs every rule and concatenates the results. Rule order does
// not affect correctness; suggestions are independent per target.
func (c *Classifier) Suggestions(ctx context.Context) ([]Suggestion, error) {
	suggestions := []Suggestion{}

	temp, err := c.findTempFiles(ctx)
	if err != nil {
		return nil, err
	}
	suggestions = append(suggestions, temp...)

	stale, err := c.findStaleLogs(ctx)
	if err != nil {
		return nil, err
	}
	suggestions = append(suggestions, stale...)

	dev, err := c.findFolderRoots(ctx, devFolders, ActionIgnore, "Dependency/build folder (%s)")
	if err != nil {
		return nil, err
	}
	suggestions = append(suggestions, dev...)

	cache, err := c.findFolderRoots(ctx, cacheFolders, ActionDelete, "Cache folder (%s)")
	if err != nil {
		return nil, err
	}
	suggestions = append(suggestions, cache...)

	return suggestions, nil
}

// findTempFiles emits a per-file delete suggestion for temp extensions.
func (c *Classifier) findTempFiles(ctx context.Context) ([]Suggestion, error) {
	records, err := c.store.FilesByExtensions(ctx, tempExtensions)
	if err != nil {
		return nil, err
	}
	var out []Suggestion
	for _, rec := range records {
		out = append(out, Suggestion{
			Path:       rec.Path,
			Type:       TargetFile,
			Reason:     "Temporary file detected",
			Action:     ActionDelete,
			SizeBytes:  rec.SizeBytes,
			Confidence: 1.0,
		})
	}
	return out, nil
}

// findStaleLogs emits a per-file archive suggestion for log/backup extensions
// whose modification time predates the stale-age cutoff.
func (c *Classifier) findStaleLogs(ctx context.Context) ([]Suggestion, error) {
	cutoff := c.now().Add(-c.staleAge).Unix()
	records, err := c.store.FilesByExtensionsModifiedBefore(ctx, staleExtensions, cutoff)
	if err != nil {
		return nil, err
	}
	var out []Suggestion
	for _, rec := range records {
		out = append(out, Suggestion{
			Path:       rec.Path,
			Type:       TargetFile,
			Reason:     "Old log/backup file (> 30 days)",
			Action:     ActionArchive,
			SizeBytes:  rec.SizeBytes,
			Confidence: 1.0,
		})
	}
	return out, nil
}

// findFolderRoots emits one aggregated suggestion per distinct folder root.
// The root is cut at the first occurrence of the target segment, so a dist
// nested inside another dist aggregates to the outer one; grouping is by
// exact root string equality.
func (c *Classifier) findFolderRoots(ctx context.Context, folders []string, action, reasonFmt string) ([]Suggestion, error) {
	var out []Suggestion
	for _, folder := range folders {
		records, err := c.store.FilesUnderFolder(ctx, folder)
		if err != nil {
			return nil, err
		}

		sizes := make(map[string]int64)
		var order []string
		for _, rec := range records {
			root, ok := folderRoot(rec.Path, folder)
			if !ok {
				continue
			}
			if _, seen := sizes[root]; !seen {
				order = append(order, root)
			}
			sizes[root] += rec.SizeBytes
		}

		for _, root := range order {
			out = append(out, Suggestion{
				Path:       root,
				Type:       TargetFolder,
				Reason:     fmt.Sprintf(reasonFmt, folder),
				Action:     action,
				SizeBytes:  sizes[root],
				Confidence: 1.0,
			})
		}
	}
	return out, nil
}

// folderRoot finds the first occurrence of folder as a full path segment
// (separator-bounded on both sides, never a raw substring) and returns the
// path up to and including that segment.
func folderRoot(path, folder string) (string, bool) {
	for _, sep := range []string{`\`, "/"} {
		marker := sep + folder + sep
		if idx := strings.Index(path, marker); idx >= 0 {
			return path[:idx+len(sep)+len(folder)], true
		}
	}
	return "", false
}
