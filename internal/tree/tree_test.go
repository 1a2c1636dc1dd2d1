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

package tree

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HeloisaBadre/catalogador-inteligente/internal/catalog"
	"github.com/HeloisaBadre/catalogador-inteligente/internal/common"
)

// fakeStore serves tree queries from an in-memory path list.
type fakeStore struct {
	records []catalog.FileRecord
}

func newFakeStore(sizes map[string]int64) *fakeStore {
	fs := &fakeStore{}
	for path, size := range sizes {
		fs.records = append(fs.records, catalog.FileRecord{Path: path, SizeBytes: size})
	}
	return fs
}

func (f *fakeStore) SamplePath(ctx context.Context) (string, error) {
	if len(f.records) == 0 {
		return "", common.ErrEmptyCatalog
	}
	return f.records[0].Path, nil
}

func (f *fakeStore) QueryPrefix(ctx context.Context, prefix string) ([]catalog.FileRecord, error) {
	var out []catalog.FileRecord
	for _, rec := range f.records {
		if strings.HasPrefix(rec.Path, prefix) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeStore) DistinctDriveRoots(ctx context.Context, limit int) ([]string, error) {
	seen := make(map[string]bool)
	var roots []string
	for _, rec := range f.records {
		if len(rec.Path) < 3 || rec.Path[1:3] != `:\` {
			continue
		}
		root := rec.Path[:3]
		if seen[root] {
			continue
		}
		seen[root] = true
		roots = append(roots, root)
		if len(roots) >= limit {
			break
		}
	}
	return roots, nil
}

func (f *fakeStore) Paths(ctx context.Context) ([]string, error) {
	var paths []string
	for _, rec := range f.records {
		paths = append(paths, rec.Path)
	}
	return paths, nil
}

func TestLevel_EmptyCatalog(t *testing.T) {
	t.Parallel()
	b := NewBuilder(newFakeStore(nil))

	level, err := b.Level(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "", level.Path)
	assert.Empty(t, level.Children)
	assert.NotNil(t, level.Children)
}

func TestLevel_AggregatesDirectoriesAndFiles(t *testing.T) {
	t.Parallel()
	b := NewBuilder(newFakeStore(map[string]int64{
		"/a/b/x.txt": 100,
		"/a/b/y.txt": 200,
		"/a/c.txt":   50,
	}))

	level, err := b.Level(context.Background(), "/a")
	require.NoError(t, err)
	require.Len(t, level.Children, 2)

	assert.Equal(t, Entry{
		Name:        "b",
		Path:        "/a/b",
		Type:        TypeDir,
		SizeBytes:   300,
		HasChildren: true,
	}, level.Children[0])
	assert.Equal(t, Entry{
		Name:        "c.txt",
		Path:        "/a/c.txt",
		Type:        TypeFile,
		SizeBytes:   50,
		HasChildren: false,
	}, level.Children[1])
}

func TestLevel_UnknownParent(t *testing.T) {
	t.Parallel()
	b := NewBuilder(newFakeStore(map[string]int64{
		"/a/b/x.txt": 100,
	}))

	level, err := b.Level(context.Background(), "/nowhere")
	require.NoError(t, err)
	assert.Equal(t, "/nowhere", level.Path)
	assert.Empty(t, level.Children)
}

func TestLevel_WindowsRoots(t *testing.T) {
	t.Parallel()
	b := NewBuilder(newFakeStore(map[string]int64{
		`C:\docs\a.txt`:     10,
		`C:\docs\sub\b.txt`: 20,
		`D:\media\c.mp4`:    30,
	}))

	level, err := b.Level(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, level.Children, 2)

	for _, child := range level.Children {
		assert.Equal(t, TypeDir, child.Type)
		assert.True(t, child.HasChildren)
		// Root sizes are not aggregated.
		assert.Equal(t, int64(0), child.SizeBytes)
	}
	assert.Equal(t, `C:\`, level.Children[0].Path)
	assert.Equal(t, `D:\`, level.Children[1].Path)
}

func TestLevel_WindowsChildren(t *testing.T) {
	t.Parallel()
	b := NewBuilder(newFakeStore(map[string]int64{
		`C:\docs\a.txt`:     10,
		`C:\docs\sub\b.txt`: 20,
		`C:\docs\sub\c.txt`: 30,
	}))

	level, err := b.Level(context.Background(), `C:\docs`)
	require.NoError(t, err)
	require.Len(t, level.Children, 2)

	assert.Equal(t, "sub", level.Children[0].Name)
	assert.Equal(t, `C:\docs\sub`, level.Children[0].Path)
	assert.Equal(t, int64(50), level.Children[0].SizeBytes)
	assert.Equal(t, "a.txt", level.Children[1].Name)
}

func TestLevel_TrailingSeparator(t *testing.T) {
	t.Parallel()
	b := NewBuilder(newFakeStore(map[string]int64{
		`C:\docs\a.txt`: 10,
	}))

	withSep, err := b.Level(context.Background(), `C:\docs\`)
	require.NoError(t, err)
	withoutSep, err := b.Level(context.Background(), `C:\docs`)
	require.NoError(t, err)

	assert.Equal(t, withoutSep.Children, withSep.Children)
}

func TestLevel_UnixRootSlash(t *testing.T) {
	t.Parallel()
	b := NewBuilder(newFakeStore(map[string]int64{
		"/home/u/a.txt": 10,
		"/var/log/b.log": 20,
	}))

	level, err := b.Level(context.Background(), "/")
	require.NoError(t, err)
	require.Len(t, level.Children, 2)
	assert.Equal(t, "home", level.Children[0].Name)
	assert.Equal(t, "/home", level.Children[0].Path)
	assert.Equal(t, "var", level.Children[1].Name)
}

func TestLevel_UnixRootListing(t *testing.T) {
	t.Parallel()
	b := NewBuilder(newFakeStore(map[string]int64{
		"/home/u/a.txt": 10,
		"/var/log/b.log": 20,
	}))

	level, err := b.Level(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, level.Children, 2)
	assert.Equal(t, "home", level.Children[0].Name)
	assert.Equal(t, "/home", level.Children[0].Path)
	assert.Equal(t, int64(0), level.Children[0].SizeBytes)
}

func TestLevel_SortsDirsFirstCaseInsensitive(t *testing.T) {
	t.Parallel()
	b := NewBuilder(newFakeStore(map[string]int64{
		"/p/Zeta/x.txt": 1,
		"/p/alpha/y.txt": 1,
		"/p/Beta.txt":   1,
		"/p/apple.txt":  1,
	}))

	level, err := b.Level(context.Background(), "/p")
	require.NoError(t, err)
	require.Len(t, level.Children, 4)

	var names []string
	for _, c := range level.Children {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"alpha", "Zeta", "apple.txt", "Beta.txt"}, names)
}

func TestLevel_RootCap(t *testing.T) {
	t.Parallel()
	sizes := map[string]int64{
		"/a/x.txt": 1,
		"/b/x.txt": 1,
		"/c/x.txt": 1,
	}
	b := NewBuilderWithRootCap(newFakeStore(sizes), 2)

	level, err := b.Level(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, level.Children, 2)
}
