package confdiff

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sourcegraph/go-diff/diff"
)

// DefaultContext is the unified-diff context window, matching the
// conventional default of three unchanged lines around each hunk.
const DefaultContext = 3

// Options control how a diff is computed.
type Options struct {
	// Context is the number of unchanged lines shown around each hunk.
	// Values below one fall back to DefaultContext.
	Context int
}

func (o Options) context() int {
	if o.Context < 1 {
		return DefaultContext
	}
	return o.Context
}

// Diff computes the unified diff between two line slices, labeled with the
// given names, and parses it into classified DiffLines. Input lines must
// carry their line endings (see fsutil.SplitLines).
func Diff(oldName, newName string, oldLines, newLines []string, opts Options) (*FileDiff, error) {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        oldLines,
		B:        newLines,
		FromFile: oldName,
		ToFile:   newName,
		Context:  opts.context(),
	})
	if err != nil {
		return nil, fmt.Errorf("diffing %s and %s: %w", oldName, newName, err)
	}

	var unified []string
	if text != "" {
		unified = strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	}

	return &FileDiff{
		FileName:    oldName,
		HasChanges:  hasChanges(unified),
		DiffLines:   parseUnified(unified, hunkStarts(text)),
		UnifiedDiff: unified,
	}, nil
}

// AddedRemoved counts the added and removed lines in the parsed diff.
func (fd *FileDiff) AddedRemoved() (added, removed int) {
	for _, line := range fd.DiffLines {
		switch line.Kind {
		case Added:
			added++
		case Removed:
			removed++
		}
	}
	return added, removed
}

// Summary renders the change counts as a human-readable string.
func (fd *FileDiff) Summary() string {
	if !fd.HasChanges {
		return "No changes detected"
	}
	added, removed := fd.AddedRemoved()
	parts := make([]string, 0, 2)
	if added > 0 {
		parts = append(parts, fmt.Sprintf("%d line(s) added", added))
	}
	if removed > 0 {
		parts = append(parts, fmt.Sprintf("%d line(s) removed", removed))
	}
	if len(parts) == 0 {
		return "Changes detected"
	}
	return strings.Join(parts, "; ")
}

func isFileHeader(line string) bool {
	return strings.HasPrefix(line, "+++") || strings.HasPrefix(line, "---")
}

func hasChanges(unified []string) bool {
	for _, line := range unified {
		if isFileHeader(line) {
			continue
		}
		if strings.HasPrefix(line, "+") || strings.HasPrefix(line, "-") {
			return true
		}
	}
	return false
}

// hunkStarts extracts the starting old/new line numbers of each hunk, in
// order. Parsing is delegated to sourcegraph/go-diff; a diff it cannot parse
// yields no entries, degrading every hunk to unknown line numbers instead of
// failing the whole diff.
func hunkStarts(text string) [][2]int {
	if text == "" {
		return nil
	}
	fileDiff, err := diff.ParseFileDiff([]byte(text))
	if err != nil {
		return nil
	}
	starts := make([][2]int, 0, len(fileDiff.Hunks))
	for _, hunk := range fileDiff.Hunks {
		starts = append(starts, [2]int{int(hunk.OrigStartLine), int(hunk.NewStartLine)})
	}
	return starts
}

// parseUnified classifies each line of the unified diff and tracks 1-based
// line numbers: context advances both counters, removed advances only the
// old counter, added advances only the new counter. Counters are re-seeded
// at each hunk header from the parsed hunk starts.
func parseUnified(unified []string, starts [][2]int) []DiffLine {
	lines := make([]DiffLine, 0, len(unified))

	var oldNum, newNum int
	var counting bool
	hunk := 0

	for _, raw := range unified {
		switch {
		case isFileHeader(raw):
			lines = append(lines, DiffLine{Kind: Header, Content: raw})
		case strings.HasPrefix(raw, "@@"):
			lines = append(lines, DiffLine{Kind: Header, Content: raw})
			counting = hunk < len(starts)
			if counting {
				oldNum, newNum = starts[hunk][0], starts[hunk][1]
			}
			hunk++
		case strings.HasPrefix(raw, "-"):
			line := DiffLine{Kind: Removed, Content: content(raw)}
			if counting {
				n := oldNum
				line.OldLineNum = &n
				oldNum++
			}
			lines = append(lines, line)
		case strings.HasPrefix(raw, "+"):
			line := DiffLine{Kind: Added, Content: content(raw)}
			if counting {
				n := newNum
				line.NewLineNum = &n
				newNum++
			}
			lines = append(lines, line)
		case strings.HasPrefix(raw, " "):
			line := DiffLine{Kind: Context, Content: content(raw)}
			if counting {
				o, n := oldNum, newNum
				line.OldLineNum = &o
				line.NewLineNum = &n
				oldNum++
				newNum++
			}
			lines = append(lines, line)
		default:
			lines = append(lines, DiffLine{Kind: Context, Content: raw})
		}
	}
	return lines
}

// content strips the one-character diff marker and any stray carriage return
// left over from CRLF input.
func content(raw string) string {
	if len(raw) < 2 {
		return ""
	}
	return strings.TrimRight(raw[1:], "\r")
}
