// Package fsutil provides stateless path checks and best-effort text reading.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// InvalidUTF8 selects how undecodable byte sequences are handled when a file
// is read as text.
type InvalidUTF8 string

const (
	// Replace substitutes U+FFFD for each invalid sequence. This keeps the
	// diff output reproducible across runs and platforms.
	Replace InvalidUTF8 = "replace"
	// Drop removes invalid sequences entirely.
	Drop InvalidUTF8 = "drop"
)

// Apply sanitizes text according to the policy. Unknown policies fall back
// to Replace.
func (p InvalidUTF8) Apply(s string) string {
	if p == Drop {
		return strings.ToValidUTF8(s, "")
	}
	return strings.ToValidUTF8(s, "�")
}

// PathExists reports whether path exists. Stat errors count as absent.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path is a directory. Stat errors count as false.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Filename extracts the base file name from a path.
func Filename(path string) string {
	return filepath.Base(path)
}

// ReadTextLines reads a file as text, applies the invalid-UTF-8 policy, and
// splits the result into lines with line endings preserved.
func ReadTextLines(path string, policy InvalidUTF8) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return SplitLines(policy.Apply(string(data))), nil
}

// SplitLines splits text into lines, each terminated with "\n". A newline is
// appended to the final line if the text does not end with one, which is the
// form the diff engine expects.
func SplitLines(text string) []string {
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		return lines[:len(lines)-1]
	}
	lines[len(lines)-1] += "\n"
	return lines
}
