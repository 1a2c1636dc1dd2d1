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

// Package tree reconstructs directory hierarchy lazily from the flat catalog.
// There is no stored tree: each call derives exactly one level from the path
// strings of the records matching a prefix query.
package tree

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/HeloisaBadre/catalogador-inteligente/internal/catalog"
	"github.com/HeloisaBadre/catalogador-inteligente/internal/common"
)

// Entry types in a tree level.
const (
	TypeFile = "file"
	TypeDir  = "dir"
)

// DefaultRootCap bounds the root listing. Degenerate catalogs (thousands of
// spurious top-level entries) must not blow up the first tree request.
const DefaultRootCap = 100

// Entry is one child in a reconstructed tree level.
type Entry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Type        string `json:"type"`
	SizeBytes   int64  `json:"size"`
	HasChildren bool   `json:"has_children"`
}

// Level is one expanded level of the tree.
type Level struct {
	Path     string  `json:"path"`
	Children []Entry `json:"children"`
}

// Store is the slice of the catalog the builder needs.
type Store interface {
	SamplePath(ctx context.Context) (string, error)
	QueryPrefix(ctx context.Context, prefix string) ([]catalog.FileRecord, error)
	DistinctDriveRoots(ctx context.Context, limit int) ([]string, error)
	Paths(ctx context.Context) ([]string, error)
}

// Builder derives tree levels from a catalog snapshot.
type Builder struct {
	store   Store
	rootCap int
}

// NewBuilder returns a Builder with the default root cap.
func NewBuilder(store Store) *Builder {
	return &Builder{store: store, rootCap: DefaultRootCap}
}

// NewBuilderWithRootCap returns a Builder with an explicit root cap.
func NewBuilderWithRootCap(store Store, rootCap int) *Builder {
	if rootCap <= 0 {
		rootCap = DefaultRootCap
	}
	return &Builder{store: store, rootCap: rootCap}
}

// Level expands one level of the directory tree. An empty parent lists the
// catalog roots. An unknown parent yields an empty children list: the catalog
// has no notion of directory existence independent of file presence, so
// "empty directory" and "no such directory" are indistinguishable here.
func (b *Builder) Level(ctx context.Context, parent string) (*Level, error) {
	sample, err := b.store.SamplePath(ctx)
	if errors.Is(err, common.ErrEmptyCatalog) {
		return &Level{Path: parent, Children: []Entry{}}, nil
	}
	if err != nil {
		return nil, err
	}
	sep := common.DetectSeparator(sample)

	if parent == "" {
		return b.listRoots(ctx, sep)
	}
	return b.listChildren(ctx, parent, sep)
}

// listRoots derives the top-level entries of the catalog namespace. Root sizes
// stay 0: aggregating them would mean a full-table scan on every root listing.
func (b *Builder) listRoots(ctx context.Context, sep string) (*Level, error) {
	var roots []string
	var err error
	if sep == common.SepWindows {
		// Drive roots come straight from SQL (first 3 chars of X:\ paths).
		roots, err = b.store.DistinctDriveRoots(ctx, b.rootCap)
		if err != nil {
			return nil, err
		}
	} else {
		paths, err := b.store.Paths(ctx)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]bool)
		for _, p := range paths {
			root, ok := common.RootOf(p, sep)
			if !ok || seen[root] {
				continue
			}
			seen[root] = true
			roots = append(roots, root)
			if len(roots) >= b.rootCap {
				break
			}
		}
	}

	level := &Level{Path: "", Children: make([]Entry, 0, len(roots))}
	for _, root := range roots {
		name := root
		if sep == common.SepUnix {
			name = strings.TrimPrefix(root, common.SepUnix)
		}
		level.Children = append(level.Children, Entry{
			Name:        name,
			Path:        root,
			Type:        TypeDir,
			SizeBytes:   0,
			HasChildren: true,
		})
	}
	sortEntries(level.Children)
	return level, nil
}

// listChildren expands one non-root level: direct file children keep their own
// size; subdirectory children aggregate every record beneath them in a single
// pass, an approximate disk usage over the catalog snapshot.
func (b *Builder) listChildren(ctx context.Context, parent, sep string) (*Level, error) {
	requested := parent
	parent = common.TrimTrailingSeparator(parent, sep)
	if parent == sep {
		// Unix "/" itself: the prefix is the bare separator.
		parent = ""
	}

	records, err := b.store.QueryPrefix(ctx, parent+sep)
	if err != nil {
		return nil, err
	}

	var files []Entry
	dirSizes := make(map[string]int64)
	var dirOrder []string

	for _, rec := range records {
		segs := common.SplitRelative(parent, rec.Path, sep)
		if len(segs) == 0 {
			continue
		}
		if len(segs) == 1 {
			files = append(files, Entry{
				Name:        segs[0],
				Path:        rec.Path,
				Type:        TypeFile,
				SizeBytes:   rec.SizeBytes,
				HasChildren: false,
			})
			continue
		}
		full := parent + sep + segs[0]
		if _, ok := dirSizes[full]; !ok {
			dirOrder = append(dirOrder, full)
		}
		dirSizes[full] += rec.SizeBytes
	}

	children := make([]Entry, 0, len(dirOrder)+len(files))
	for _, full := range dirOrder {
		children = append(children, Entry{
			Name:        common.BaseName(full, sep),
			Path:        full,
			Type:        TypeDir,
			SizeBytes:   dirSizes[full],
			HasChildren: true,
		})
	}
	children = append(children, files...)
	sortEntries(children)

	return &Level{Path: requested, Children: children}, nil
}

// sortEntries orders directories before files, then case-insensitive by name.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Type != entries[j].Type {
			return entries[i].Type == TypeDir
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
}
