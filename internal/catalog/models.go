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

	"github.com/uptrace/bun"
)

// FileRecordModel represents one row of the files table.
// The scanner owns inserts; the engine only ever reads rows and updates the
// two SHA256 columns.
type FileRecordModel struct {
	bun.BaseModel `bun:"table:files"`

	ID             int64          `bun:"id,pk,autoincrement"`
	Path           string         `bun:"path,notnull"`
	Filename       string         `bun:"filename,notnull"`
	Extension      string         `bun:"extension"`
	SizeBytes      int64          `bun:"size_bytes,notnull"`
	CreatedAt      sql.NullInt64  `bun:"created_at"`  // Unix timestamp; NULL on filesystems without birth time
	ModifiedAt     sql.NullInt64  `bun:"modified_at"` // Unix timestamp
	MD5Hash        string         `bun:"md5_hash,notnull"`
	SHA256Hash     sql.NullString `bun:"sha256_hash"`
	SHA256Verified bool           `bun:"sha256_verified"`
}

// FileRecord is the engine-facing view of a cataloged file. Timestamps are
// epoch seconds with 0 standing in for NULL; SHA256Hash is empty until the
// verification flow has populated it.
type FileRecord struct {
	ID             int64  `json:"id"`
	Path           string `json:"path"`
	Filename       string `json:"filename"`
	Extension      string `json:"extension"`
	SizeBytes      int64  `json:"size_bytes"`
	CreatedAt      int64  `json:"created_at,omitempty"`
	ModifiedAt     int64  `json:"modified_at,omitempty"`
	MD5Hash        string `json:"md5_hash"`
	SHA256Hash     string `json:"sha256_hash,omitempty"`
	SHA256Verified bool   `json:"sha256_verified"`
}

// ToRecord converts a FileRecordModel to a FileRecord
func (m *FileRecordModel) ToRecord() FileRecord {
	rec := FileRecord{
		ID:             m.ID,
		Path:           m.Path,
		Filename:       m.Filename,
		Extension:      m.Extension,
		SizeBytes:      m.SizeBytes,
		MD5Hash:        m.MD5Hash,
		SHA256Verified: m.SHA256Verified,
	}
	if m.CreatedAt.Valid {
		rec.CreatedAt = m.CreatedAt.Int64
	}
	if m.ModifiedAt.Valid {
		rec.ModifiedAt = m.ModifiedAt.Int64
	}
	if m.SHA256Hash.Valid {
		rec.SHA256Hash = m.SHA256Hash.String
	}
	return rec
}

func toRecords(models []FileRecordModel) []FileRecord {
	records := make([]FileRecord, len(models))
	for i := range models {
		records[i] = models[i].ToRecord()
	}
	return records
}
