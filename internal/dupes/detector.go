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

// Package dupes implements the two-phase duplicate-confirmation protocol:
// cheap MD5 candidate grouping over the whole catalog, then selective SHA256
// verification of the candidate groups a caller asks to confirm. Equal MD5 is
// suspicion; only equal, freshly computed SHA256 is certainty.
package dupes

import (
	"context"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/HeloisaBadre/catalogador-inteligente/internal/catalog"
)

// DefaultWorkers bounds concurrent file hashing in a verification batch.
const DefaultWorkers = 4

// Store is the slice of the catalog the detector needs.
type Store interface {
	DuplicateGroups(ctx context.Context) ([]catalog.DuplicateGroup, error)
	UpdateSHA256(ctx context.Context, id int64, sha256Hex string) error
}

// Detector runs both phases of the protocol. File contents are read through a
// billy filesystem so verification is testable against an in-memory fs.
type Detector struct {
	store   Store
	fs      billy.Filesystem
	workers int
}

// OSFilesystem returns the billy filesystem over the host root, the
// production source of file bytes for verification.
func OSFilesystem() billy.Filesystem {
	return osfs.New("/")
}

// NewDetector returns a Detector hashing real files from the OS filesystem.
func NewDetector(store Store) *Detector {
	return NewDetectorWithFS(store, OSFilesystem(), DefaultWorkers)
}

// NewDetectorWithFS returns a Detector with an explicit filesystem and worker
// limit.
func NewDetectorWithFS(store Store, fs billy.Filesystem, workers int) *Detector {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Detector{store: store, fs: fs, workers: workers}
}

// Candidates is phase 1: every MD5 group with more than one member, with
// estimated wasted space and whether any member already carries a confirmed
// SHA256. Always available, never touches file contents.
func (d *Detector) Candidates(ctx context.Context) ([]catalog.DuplicateGroup, error) {
	return d.store.DuplicateGroups(ctx)
}
