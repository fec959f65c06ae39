package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// skipDirs are never descended into when walking a directory argument.
var skipDirs = map[string]bool{
	".git": true,
	".hg":  true,
	".svn": true,
}

// expandPaths turns command-line arguments into file paths. Glob patterns
// are expanded, "**" matching any number of directories, and directories
// are walked. The result keeps first-seen order without duplicates.
// Arguments that match nothing are passed through so the scan reports them.
func expandPaths(args []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, arg := range args {
		var expanded []string
		var err error
		if hasMeta(arg) {
			expanded, err = globPaths(arg)
		} else {
			expanded, err = walkPath(arg)
		}
		if err != nil {
			return nil, fmt.Errorf("expanding %s: %w", arg, err)
		}
		for _, p := range expanded {
			add(p)
		}
	}
	return paths, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

// walkPath returns path itself, or every file below it when it is a
// directory.
func walkPath(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if p != path && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		files = append(files, p)
		return nil
	})
	return files, err
}

// globPaths expands pattern. Without "**" it is filepath.Glob; with it,
// the fixed directory prefix is walked and every file is matched segment
// by segment.
func globPaths(pattern string) ([]string, error) {
	if !strings.Contains(pattern, "**") {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		var files []string
		for _, m := range matches {
			walked, err := walkPath(m)
			if err != nil {
				return nil, err
			}
			files = append(files, walked...)
		}
		return files, nil
	}

	pattern = filepath.ToSlash(filepath.Clean(pattern))
	root := globRoot(pattern)
	segments := strings.Split(pattern, "/")

	var files []string
	err := filepath.WalkDir(filepath.FromSlash(root), func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipAll
			}
			return nil
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		if matchSegments(segments, strings.Split(filepath.ToSlash(p), "/")) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// globRoot returns the directories of pattern before the first segment
// holding a wildcard, or "." when the first segment has one.
func globRoot(pattern string) string {
	segments := strings.Split(pattern, "/")
	var fixed []string
	for _, s := range segments[:len(segments)-1] {
		if hasMeta(s) {
			break
		}
		fixed = append(fixed, s)
	}
	if len(fixed) == 0 {
		return "."
	}
	root := strings.Join(fixed, "/")
	if root == "" {
		return "/"
	}
	return root
}

// matchSegments reports whether path matches pattern, both split on "/".
// A "**" segment matches zero or more path segments; every other segment
// is matched with filepath.Match.
func matchSegments(pattern, path []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			for i := 0; i <= len(path); i++ {
				if matchSegments(rest, path[i:]) {
					return true
				}
			}
			return false
		}
		if len(path) == 0 {
			return false
		}
		if ok, _ := filepath.Match(pattern[0], path[0]); !ok {
			return false
		}
		pattern, path = pattern[1:], path[1:]
	}
	return len(path) == 0
}
