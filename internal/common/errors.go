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

package common

import "errors"

var (
	// ErrEmptyCatalog means the catalog has zero records. Tree and root
	// listings treat this as "nothing to show", not a hard failure.
	ErrEmptyCatalog = errors.New("catalog is empty")

	// ErrStorageUnavailable means the catalog database itself could not be
	// reached. Fatal for the current request; never retried internally.
	ErrStorageUnavailable = errors.New("catalog storage unavailable")

	// ErrUnreadableFile marks a per-file hashing failure (moved, deleted or
	// permission-denied since the scan). Isolated to that file.
	ErrUnreadableFile = errors.New("file is not readable")

	// ErrInvalidPath marks a malformed path or file reference in a request.
	ErrInvalidPath = errors.New("invalid path")
)
