// Package confdiff implements the core comparison pipeline: matching
// components and config files between two scanned trees and computing
// classified unified diffs for matched file pairs.
package confdiff

import (
	"encoding/json"
	"fmt"
)

// LineKind classifies a single line of a unified diff.
type LineKind int

const (
	Header LineKind = iota
	Added
	Removed
	Context
)

func (k LineKind) String() string {
	switch k {
	case Header:
		return "header"
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Context:
		return "context"
	}
	return fmt.Sprintf("LineKind(%d)", int(k))
}

func (k LineKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// DiffLine is one parsed line of a unified diff. Line numbers are 1-based
// positions in the old/new file and are nil when they cannot be derived,
// e.g. after a malformed hunk header.
type DiffLine struct {
	Kind       LineKind `json:"line_type"`
	Content    string   `json:"content"`
	OldLineNum *int     `json:"old_line_num"`
	NewLineNum *int     `json:"new_line_num"`
}

// FilePair is a pairing of one file from the old tree and one from the new
// tree sharing a component name and base filename.
type FilePair struct {
	ComponentName  string `json:"component_name"`
	ConfigFileName string `json:"config_file_name"`
	OldPath        string `json:"old_path"`
	NewPath        string `json:"new_path"`
}

// FileDiff is the diff result for a single matched file pair. ComponentName
// is assigned by the caller; the diff engine itself is component-agnostic.
type FileDiff struct {
	FileName      string     `json:"file_name"`
	ComponentName string     `json:"component_name"`
	HasChanges    bool       `json:"has_changes"`
	DiffLines     []DiffLine `json:"diff_lines"`
	UnifiedDiff   []string   `json:"unified_diff"`
}

// ScanResult holds the matched pairs and the components present on only one
// side of a tree pair.
type ScanResult struct {
	MatchedPairs []FilePair `json:"matched_pairs"`
	OldOnly      []string   `json:"old_only"`
	NewOnly      []string   `json:"new_only"`
}

// ComparisonResult aggregates a whole folder comparison.
type ComparisonResult struct {
	TotalComponents       int         `json:"total_components"`
	ComponentsWithChanges int         `json:"components_with_changes"`
	FileDiffs             []*FileDiff `json:"file_diffs"`
	Errors                []string    `json:"errors"`
	Summary               []string    `json:"summary"`
}
