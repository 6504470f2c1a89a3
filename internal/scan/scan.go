// Package scan discovers components and their config files under a snapshot
// root. Components are the immediate subdirectories of the root; everything
// beneath a component is collected recursively.
package scan

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/boyter/gocodewalker"

	"github.com/confdiff/confdiff/internal/fsutil"
)

type Scanner struct {
	ignore        []string
	warningWriter io.Writer
}

// New returns a Scanner that filters out files matching the given doublestar
// patterns (relative to their component directory) and reports unreadable
// subtrees to warningWriter.
func New(ignore []string, warningWriter io.Writer) *Scanner {
	if warningWriter == nil {
		warningWriter = io.Discard
	}
	return &Scanner{ignore: ignore, warningWriter: warningWriter}
}

// Scan maps each component under root to the file paths found anywhere
// beneath it. A missing or non-directory root yields an empty map; callers
// are expected to validate the root beforehand. Files directly under root
// are ignored, unreadable subtrees are skipped with a warning, and
// components without any files are omitted.
func (s *Scanner) Scan(root string) map[string][]string {
	components := make(map[string][]string)
	if !fsutil.IsDir(root) {
		return components
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		fmt.Fprintf(s.warningWriter, "WARNING: Error scanning root %s: %v\n", root, err)
		return components
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		compPath := filepath.Join(root, entry.Name())
		files := s.walkComponent(compPath)
		if len(files) > 0 {
			components[entry.Name()] = files
		}
	}
	return components
}

func (s *Scanner) walkComponent(compPath string) []string {
	fileListQueue := make(chan *gocodewalker.File, 100)

	walker := gocodewalker.NewFileWalker(compPath, fileListQueue)
	walker.IncludeHidden = true
	// Config snapshots are compared verbatim; ignore files inside them must
	// not shape the walk.
	walker.IgnoreGitIgnore = true
	walker.IgnoreIgnoreFile = true
	walker.SetErrorHandler(func(err error) bool {
		fmt.Fprintf(s.warningWriter, "WARNING: Error scanning %s: %v\n", compPath, err)
		return true
	})

	errChan := make(chan error)
	go func() {
		errChan <- walker.Start()
		close(errChan)
	}()

	files := make([]string, 0)
	for file := range fileListQueue {
		if s.ignored(compPath, file.Location) {
			continue
		}
		files = append(files, filepath.Clean(file.Location))
	}
	if err := <-errChan; err != nil {
		fmt.Fprintf(s.warningWriter, "WARNING: Error scanning %s: %v\n", compPath, err)
	}
	return files
}

func (s *Scanner) ignored(compPath, location string) bool {
	rel, err := filepath.Rel(compPath, location)
	if err != nil {
		rel = location
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range s.ignore {
		if match, err := doublestar.Match(pattern, rel); err == nil && match {
			return true
		}
	}
	return false
}
