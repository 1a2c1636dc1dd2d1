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
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/HeloisaBadre/catalogador-inteligente/internal/common"
)

// hashChunkSize is the fixed read chunk for streaming hashes. Files of any
// size hash in constant memory.
const hashChunkSize = 8192

// VerifiedFile is the per-file outcome of a verification batch.
type VerifiedFile struct {
	ID      int64  `json:"id"`
	Path    string `json:"path"`
	SHA256  string `json:"sha256,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// VerifiedGroup is one SHA256 group produced by phase 2. A singleton group is
// a refuted candidate: it shared an MD5 with its siblings but not content.
type VerifiedGroup struct {
	ContentHash string         `json:"content_hash"`
	Files       []VerifiedFile `json:"files"`
	Count       int            `json:"count"`
	IsDuplicate bool           `json:"is_duplicate"`
}

// VerifyResult is the full outcome of one verification batch. Every requested
// file appears in the counts; nothing is silently dropped.
type VerifyResult struct {
	Fingerprint    string          `json:"fingerprint"`
	VerifiedGroups []VerifiedGroup `json:"verified_groups"`
	Failures       []VerifiedFile  `json:"failures,omitempty"`
	Total          int             `json:"total"`
	Successful     int             `json:"successful"`
	Failed         int             `json:"failed"`
}

// VerifyCandidates is phase 2: stream-hash each requested file with SHA256,
// persist the hash on success, then regroup the batch by the fresh SHA256 —
// not the original MD5, since shared MD5 without shared content is exactly the
// case this phase exists to catch. Unreadable files are reported and skipped;
// they never block their siblings. Result order follows input order regardless
// of worker completion order.
func (d *Detector) VerifyCandidates(ctx context.Context, fingerprint string, ids []int64, paths []string) (*VerifyResult, error) {
	if len(ids) != len(paths) {
		return nil, fmt.Errorf("mismatched batch: %d ids, %d paths", len(ids), len(paths))
	}

	results := make([]VerifiedFile, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	for i := range ids {
		g.Go(func() error {
			results[i] = VerifiedFile{ID: ids[i], Path: paths[i]}
			if err := gctx.Err(); err != nil {
				results[i].Error = err.Error()
				return nil
			}
			sum, err := d.hashFile(paths[i])
			if err != nil {
				log.Debugf("[DUPES] hash %s failed: %v", paths[i], err)
				results[i].Error = err.Error()
				return nil
			}
			results[i].SHA256 = sum
			results[i].Success = true
			return nil
		})
	}
	// Workers record failures in place and never return an error.
	_ = g.Wait()

	// Persist sequentially: updates touch disjoint ids and the hash of an
	// unchanged file is deterministic, so re-verification is idempotent.
	for i := range results {
		if !results[i].Success {
			continue
		}
		if err := d.store.UpdateSHA256(ctx, results[i].ID, results[i].SHA256); err != nil {
			log.Warnf("[DUPES] persist sha256 for id=%d failed: %v", results[i].ID, err)
			results[i].Success = false
			results[i].SHA256 = ""
			results[i].Error = fmt.Sprintf("persist hash: %v", err)
		}
	}

	result := &VerifyResult{
		Fingerprint: fingerprint,
		Total:       len(results),
	}

	// Regroup by fresh SHA256, preserving first-seen order.
	groupIdx := make(map[string]int)
	for _, vf := range results {
		if !vf.Success {
			result.Failed++
			result.Failures = append(result.Failures, vf)
			continue
		}
		result.Successful++
		idx, ok := groupIdx[vf.SHA256]
		if !ok {
			idx = len(result.VerifiedGroups)
			groupIdx[vf.SHA256] = idx
			result.VerifiedGroups = append(result.VerifiedGroups, VerifiedGroup{ContentHash: vf.SHA256})
		}
		result.VerifiedGroups[idx].Files = append(result.VerifiedGroups[idx].Files, vf)
	}
	for i := range result.VerifiedGroups {
		result.VerifiedGroups[i].Count = len(result.VerifiedGroups[i].Files)
		result.VerifiedGroups[i].IsDuplicate = result.VerifiedGroups[i].Count > 1
	}

	log.Debugf("[DUPES] verify md5=%s: %d total, %d ok, %d failed, %d sha256 groups",
		fingerprint, result.Total, result.Successful, result.Failed, len(result.VerifiedGroups))
	return result, nil
}

// hashFile streams a file through SHA256 in fixed-size chunks.
func (d *Detector) hashFile(path string) (string, error) {
	f, err := d.fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUnreadableFile, err)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, hashChunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
