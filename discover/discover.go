// Package discover walks a directory tree and collects the Rust source
// files that the convention rules evaluate.
package discover

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// SourceFile is a discovered Rust source file with its contents read.
type SourceFile struct {
	// Path is the absolute path on disk
	Path string
	// Rel is the path relative to the discovery root, slash-separated
	Rel string
	// Content is the file's raw bytes
	Content []byte
}

// skipDirs are directory names never descended into. "target" holds build
// output, "libs" holds vendored third-party sources.
var skipDirs = map[string]bool{
	"target": true,
	"libs":   true,
}

// RustFiles walks root and returns every .rs file not excluded by the
// ignore patterns, sorted by relative path. Patterns use doublestar syntax
// and match against the slash-separated relative path.
func RustFiles(root string, ignore []string) ([]SourceFile, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to stat root: %w", err)
	}

	// A single file target bypasses the walk and the ignore patterns.
	if !info.IsDir() {
		if !strings.HasSuffix(absRoot, ".rs") {
			return nil, fmt.Errorf("%s is not a Rust source file", root)
		}
		content, err := os.ReadFile(absRoot)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", root, err)
		}
		return []SourceFile{{Path: absRoot, Rel: filepath.Base(absRoot), Content: content}}, nil
	}

	var files []SourceFile
	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path == absRoot {
				return nil
			}
			if strings.HasPrefix(name, ".") || skipDirs[name] {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(name, ".rs") {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		for _, pattern := range ignore {
			if ok, _ := doublestar.Match(pattern, rel); ok {
				return nil
			}
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		files = append(files, SourceFile{Path: path, Rel: rel, Content: content})
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Rel < files[j].Rel })
	return files, nil
}
