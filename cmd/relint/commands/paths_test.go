package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTree(t *testing.T, files ...string) {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		path := filepath.Join(dir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o600))
	}
	t.Chdir(dir)
}

func TestExpandPaths(t *testing.T) {
	makeTree(t,
		"a.py",
		"b.js",
		"src/c.py",
		"src/deep/d.py",
		"src/deep/e.txt",
		".git/config.py",
	)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"plain file", []string{"a.py"}, []string{"a.py"}},
		{"missing file passes through", []string{"nope.py"}, []string{"nope.py"}},
		{"directory is walked", []string{"src"}, []string{"src/c.py", "src/deep/d.py", "src/deep/e.txt"}},
		{"glob", []string{"*.py"}, []string{"a.py"}},
		{"recursive glob", []string{"**/*.py"}, []string{"a.py", "src/c.py", "src/deep/d.py"}},
		{"recursive glob under prefix", []string{"src/**/*.py"}, []string{"src/c.py", "src/deep/d.py"}},
		{"glob matching a directory", []string{"sr?"}, []string{"src/c.py", "src/deep/d.py", "src/deep/e.txt"}},
		{"glob matching nothing", []string{"*.go"}, nil},
		{"duplicates keep first position", []string{"src/c.py", "**/*.py", "a.py"}, []string{"src/c.py", "a.py", "src/deep/d.py"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandPaths(tt.args)
			require.NoError(t, err)

			for i := range got {
				got[i] = filepath.ToSlash(got[i])
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandPaths_SkipsVCSDirs(t *testing.T) {
	makeTree(t, "x.py", ".git/hooks/pre-commit.py")

	got, err := expandPaths([]string{"."})
	require.NoError(t, err)
	for _, p := range got {
		assert.False(t, strings.HasPrefix(filepath.ToSlash(p), ".git/"), p)
	}
	assert.Contains(t, got, "x.py")
}

func TestExpandPaths_BadPattern(t *testing.T) {
	_, err := expandPaths([]string{"[a"})
	assert.Error(t, err)
}

func TestMatchSegments(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"**/*.py", "a.py", true},
		{"**/*.py", "x/y/a.py", true},
		{"**/*.py", "x/y/a.js", false},
		{"src/**", "src/a/b", true},
		{"src/**/b", "src/b", true},
		{"src/*/b", "src/b", false},
		{"src/*/b", "src/a/b", true},
		{"a/**/b/**/c", "a/x/b/y/z/c", true},
	}

	for _, tt := range tests {
		got := matchSegments(strings.Split(tt.pattern, "/"), strings.Split(tt.path, "/"))
		assert.Equal(t, tt.want, got, "%s ~ %s", tt.pattern, tt.path)
	}
}

func TestGlobRoot(t *testing.T) {
	assert.Equal(t, ".", globRoot("*.py"))
	assert.Equal(t, ".", globRoot("**/*.py"))
	assert.Equal(t, "src", globRoot("src/**/*.py"))
	assert.Equal(t, "src/lib", globRoot("src/lib/*.py"))
	assert.Equal(t, "/", globRoot("/**/*.py"))
}

func TestWatchRoots(t *testing.T) {
	makeTree(t, "a.py", "src/c.py")

	got := watchRoots([]string{"a.py", "src", "src/c.py", "**/*.py", "lib/**/*.js"})
	assert.Equal(t, []string{".", "src", "lib"}, got)
}
