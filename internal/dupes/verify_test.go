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

package dupes

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HeloisaBadre/catalogador-inteligente/internal/catalog"
)

// fakeStore records SHA256 updates in memory.
type fakeStore struct {
	mu      sync.Mutex
	groups  []catalog.DuplicateGroup
	updates map[int64]string
	fail    map[int64]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{updates: make(map[int64]string), fail: make(map[int64]error)}
}

func (s *fakeStore) DuplicateGroups(ctx context.Context) ([]catalog.DuplicateGroup, error) {
	return s.groups, nil
}

func (s *fakeStore) UpdateSHA256(ctx context.Context, id int64, sha256Hex string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail[id]; err != nil {
		return err
	}
	s.updates[id] = sha256Hex
	return nil
}

func writeFile(t *testing.T, fs billy.Filesystem, path, content string) {
	t.Helper()
	f, err := fs.Create(path)
	require.NoError(t, err)
	_, err = f.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func sha256Hex(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func TestVerifyCandidates_ConfirmsTrueDuplicates(t *testing.T) {
	t.Parallel()
	fs := memfs.New()
	writeFile(t, fs, "/data/a.bin", "same content")
	writeFile(t, fs, "/data/b.bin", "same content")
	store := newFakeStore()
	d := NewDetectorWithFS(store, fs, 2)

	res, err := d.VerifyCandidates(context.Background(), "md5fp",
		[]int64{1, 2}, []string{"/data/a.bin", "/data/b.bin"})
	require.NoError(t, err)

	assert.Equal(t, "md5fp", res.Fingerprint)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 2, res.Successful)
	assert.Equal(t, 0, res.Failed)
	require.Len(t, res.VerifiedGroups, 1)

	g := res.VerifiedGroups[0]
	assert.Equal(t, sha256Hex("same content"), g.ContentHash)
	assert.Equal(t, 2, g.Count)
	assert.True(t, g.IsDuplicate)

	// Both hashes were persisted.
	assert.Equal(t, sha256Hex("same content"), store.updates[1])
	assert.Equal(t, sha256Hex("same content"), store.updates[2])
}

func TestVerifyCandidates_RefutesCollision(t *testing.T) {
	t.Parallel()
	fs := memfs.New()
	// Same MD5 candidate group, but contents differ: the strong hash must
	// split them into two singleton groups, neither a confirmed duplicate.
	writeFile(t, fs, "/data/a.bin", "content one")
	writeFile(t, fs, "/data/b.bin", "content two")
	store := newFakeStore()
	d := NewDetectorWithFS(store, fs, 2)

	res, err := d.VerifyCandidates(context.Background(), "md5fp",
		[]int64{1, 2}, []string{"/data/a.bin", "/data/b.bin"})
	require.NoError(t, err)

	require.Len(t, res.VerifiedGroups, 2)
	for _, g := range res.VerifiedGroups {
		assert.Equal(t, 1, g.Count)
		assert.False(t, g.IsDuplicate)
	}
}

func TestVerifyCandidates_UnreadableFileIsolated(t *testing.T) {
	t.Parallel()
	fs := memfs.New()
	writeFile(t, fs, "/data/a.bin", "payload")
	writeFile(t, fs, "/data/c.bin", "payload")
	store := newFakeStore()
	d := NewDetectorWithFS(store, fs, 2)

	// /data/missing.bin does not exist; its siblings must still verify.
	res, err := d.VerifyCandidates(context.Background(), "md5fp",
		[]int64{1, 2, 3}, []string{"/data/a.bin", "/data/missing.bin", "/data/c.bin"})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Successful)
	assert.Equal(t, 1, res.Failed)

	require.Len(t, res.Failures, 1)
	assert.Equal(t, int64(2), res.Failures[0].ID)
	assert.False(t, res.Failures[0].Success)
	assert.NotEmpty(t, res.Failures[0].Error)

	require.Len(t, res.VerifiedGroups, 1)
	assert.Equal(t, 2, res.VerifiedGroups[0].Count)
	assert.True(t, res.VerifiedGroups[0].IsDuplicate)

	// No hash was persisted for the unreadable file.
	_, ok := store.updates[2]
	assert.False(t, ok)
}

func TestVerifyCandidates_InputOrderPreserved(t *testing.T) {
	t.Parallel()
	fs := memfs.New()
	var ids []int64
	var paths []string
	for i := 0; i < 20; i++ {
		path := "/data/f" + strings.Repeat("x", i) + ".bin"
		writeFile(t, fs, path, "shared")
		ids = append(ids, int64(i+1))
		paths = append(paths, path)
	}
	d := NewDetectorWithFS(newFakeStore(), fs, 4)

	res, err := d.VerifyCandidates(context.Background(), "md5fp", ids, paths)
	require.NoError(t, err)
	require.Len(t, res.VerifiedGroups, 1)

	files := res.VerifiedGroups[0].Files
	require.Len(t, files, 20)
	for i, vf := range files {
		assert.Equal(t, ids[i], vf.ID)
		assert.Equal(t, paths[i], vf.Path)
	}
}

func TestVerifyCandidates_PersistFailureDemotes(t *testing.T) {
	t.Parallel()
	fs := memfs.New()
	writeFile(t, fs, "/data/a.bin", "payload")
	writeFile(t, fs, "/data/b.bin", "payload")
	store := newFakeStore()
	store.fail[2] = errors.New("database is locked")
	d := NewDetectorWithFS(store, fs, 2)

	res, err := d.VerifyCandidates(context.Background(), "md5fp",
		[]int64{1, 2}, []string{"/data/a.bin", "/data/b.bin"})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Successful)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, int64(2), res.Failures[0].ID)
	assert.Contains(t, res.Failures[0].Error, "persist hash")
}

func TestVerifyCandidates_MismatchedBatch(t *testing.T) {
	t.Parallel()
	d := NewDetectorWithFS(newFakeStore(), memfs.New(), 2)

	_, err := d.VerifyCandidates(context.Background(), "md5fp",
		[]int64{1, 2}, []string{"/only/one.bin"})
	assert.Error(t, err)
}

func TestVerifyCandidates_Reverification(t *testing.T) {
	t.Parallel()
	fs := memfs.New()
	writeFile(t, fs, "/data/a.bin", "stable")
	store := newFakeStore()
	d := NewDetectorWithFS(store, fs, 1)

	first, err := d.VerifyCandidates(context.Background(), "md5fp",
		[]int64{1}, []string{"/data/a.bin"})
	require.NoError(t, err)
	second, err := d.VerifyCandidates(context.Background(), "md5fp",
		[]int64{1}, []string{"/data/a.bin"})
	require.NoError(t, err)

	assert.Equal(t, first.VerifiedGroups, second.VerifiedGroups)
	assert.Equal(t, sha256Hex("stable"), store.updates[1])
}

func TestCandidates_PassThrough(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	store.groups = []catalog.DuplicateGroup{{Fingerprint: "abc", Count: 2, WastedBytes: 100}}
	d := NewDetectorWithFS(store, memfs.New(), 1)

	groups, err := d.Candidates(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "abc", groups[0].Fingerprint)
}
