package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectSeparator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		sample string
		want   string
	}{
		{"unix", "/home/user/file.txt", SepUnix},
		{"windows", `C:\Users\file.txt`, SepWindows},
		{"mixed_prefers_backslash", `C:\Users/odd`, SepWindows},
		{"bare_name", "file.txt", SepUnix},
		{"empty", "", SepUnix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DetectSeparator(tt.sample))
		})
	}
}

func TestTrimTrailingSeparator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		sep  string
		want string
	}{
		{"no_trailing", "/a/b", SepUnix, "/a/b"},
		{"trailing", "/a/b/", SepUnix, "/a/b"},
		{"root_preserved", "/", SepUnix, "/"},
		{"windows_trailing", `C:\Users\`, SepWindows, `C:\Users`},
		{"windows_no_trailing", `C:\Users`, SepWindows, `C:\Users`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, TrimTrailingSeparator(tt.path, tt.sep))
		})
	}
}

func TestSplitRelative(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		parent string
		child  string
		sep    string
		want   []string
	}{
		{"direct_child", "/a", "/a/x.txt", SepUnix, []string{"x.txt"}},
		{"nested", "/a", "/a/b/c/x.txt", SepUnix, []string{"b", "c", "x.txt"}},
		{"windows", `C:\proj`, `C:\proj\src\main.rs`, SepWindows, []string{"src", "main.rs"}},
		{"exact_boundary", "/a", "/a/", SepUnix, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SplitRelative(tt.parent, tt.child, tt.sep))
		})
	}
}

func TestRootOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		sep  string
		want string
		ok   bool
	}{
		{"unix_simple", "/home/user/f.txt", SepUnix, "/home", true},
		{"unix_top_level_file", "/swapfile", SepUnix, "/swapfile", true},
		{"unix_no_leading_slash", "relative/f.txt", SepUnix, "", false},
		{"unix_bare_slash", "/", SepUnix, "", false},
		{"windows_drive", `C:\Users\f.txt`, SepWindows, `C:\`, true},
		{"windows_lowercase_drive", `d:\data\f.bin`, SepWindows, `d:\`, true},
		{"windows_unc_rejected", `\\server\share\f.txt`, SepWindows, "", false},
		{"windows_too_short", `C:`, SepWindows, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := RootOf(tt.path, tt.sep)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBaseName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "x.txt", BaseName("/a/b/x.txt", SepUnix))
	assert.Equal(t, "main.rs", BaseName(`C:\proj\main.rs`, SepWindows))
	assert.Equal(t, "plain", BaseName("plain", SepUnix))
}
