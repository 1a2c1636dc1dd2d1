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

import "strings"

// Path separators as they appear in cataloged paths. The catalog stores
// OS-native absolute paths, so a single catalog uses one separator throughout.
const (
	SepUnix    = "/"
	SepWindows = `\`
)

// DetectSeparator decides which separator a catalog uses from a single sample
// path. Backslash wins if present; everything else is treated as Unix-style.
func DetectSeparator(sample string) string {
	if strings.Contains(sample, SepWindows) {
		return SepWindows
	}
	return SepUnix
}

// TrimTrailingSeparator normalizes a parent path for prefix queries.
// The catalog root separators themselves ("/" or "C:\") are left alone.
func TrimTrailingSeparator(path, sep string) string {
	if path == sep {
		return path
	}
	return strings.TrimSuffix(path, sep)
}

// SplitRelative returns the ordered path segments of child beyond parent.
// The caller guarantees child is a descendant of parent (child starts with
// parent + sep); the prefix query that produces candidates enforces this.
func SplitRelative(parent, child, sep string) []string {
	rel := child[len(parent)+len(sep):]
	if rel == "" {
		return nil
	}
	return strings.Split(rel, sep)
}

// IsDriveRoot reports whether path starts with a Windows drive root ("X:\").
func IsDriveRoot(path string) bool {
	if len(path) < 3 {
		return false
	}
	c := path[0]
	letter := (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
	return letter && path[1] == ':' && path[2] == '\\'
}

// RootOf derives the catalog root containing path. For backslash catalogs the
// root is the drive form "X:\" (first three characters); for Unix catalogs it
// is the first segment after the leading slash. Returns false for paths that
// carry no recognizable root.
func RootOf(path, sep string) (string, bool) {
	if sep == SepWindows {
		if !IsDriveRoot(path) {
			return "", false
		}
		return path[:3], true
	}
	if !strings.HasPrefix(path, SepUnix) {
		return "", false
	}
	rest := path[1:]
	if rest == "" {
		return "", false
	}
	if i := strings.Index(rest, SepUnix); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" {
		return "", false
	}
	return SepUnix + rest, true
}

// BaseName returns the final segment of a cataloged path under either
// separator convention.
func BaseName(path, sep string) string {
	if i := strings.LastIndex(path, sep); i >= 0 {
		return path[i+len(sep):]
	}
	return path
}
