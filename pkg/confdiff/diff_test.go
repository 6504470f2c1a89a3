package confdiff

import (
	"strings"
	"testing"
)

func mustDiff(t *testing.T, oldLines, newLines []string) *FileDiff {
	t.Helper()
	fileDiff, err := Diff("old.yaml", "new.yaml", oldLines, newLines, Options{})
	if err != nil {
		t.Fatalf("Diff returned error: %v", err)
	}
	return fileDiff
}

func TestDiffIdenticalFiles(t *testing.T) {
	lines := []string{"a\n", "b\n", "c\n"}
	fileDiff := mustDiff(t, lines, lines)

	if fileDiff.HasChanges {
		t.Error("identical inputs should report no changes")
	}
	if len(fileDiff.DiffLines) != 0 || len(fileDiff.UnifiedDiff) != 0 {
		t.Errorf("identical inputs should produce an empty diff, got %d diff lines", len(fileDiff.DiffLines))
	}
	added, removed := fileDiff.AddedRemoved()
	if added != 0 || removed != 0 {
		t.Errorf("expected zero counts, got %d added %d removed", added, removed)
	}
	if fileDiff.Summary() != "No changes detected" {
		t.Errorf("unexpected summary: %q", fileDiff.Summary())
	}
}

func TestDiffSingleChangedLine(t *testing.T) {
	fileDiff := mustDiff(t,
		[]string{"a\n", "b\n", "c\n"},
		[]string{"a\n", "x\n", "c\n"},
	)

	if !fileDiff.HasChanges {
		t.Fatal("expected changes")
	}
	added, removed := fileDiff.AddedRemoved()
	if added != 1 || removed != 1 {
		t.Errorf("expected 1 added and 1 removed, got %d and %d", added, removed)
	}
	if fileDiff.Summary() != "1 line(s) added; 1 line(s) removed" {
		t.Errorf("unexpected summary: %q", fileDiff.Summary())
	}
	if fileDiff.FileName != "old.yaml" {
		t.Errorf("unexpected file name: %q", fileDiff.FileName)
	}
}

func TestDiffLineNumbers(t *testing.T) {
	fileDiff := mustDiff(t,
		[]string{"a\n", "b\n", "c\n"},
		[]string{"a\n", "x\n", "c\n"},
	)

	num := func(n int) *int { return &n }
	expected := []DiffLine{
		{Kind: Header, Content: "--- old.yaml"},
		{Kind: Header, Content: "+++ new.yaml"},
		{Kind: Header, Content: "@@ -1,3 +1,3 @@"},
		{Kind: Context, Content: "a", OldLineNum: num(1), NewLineNum: num(1)},
		{Kind: Removed, Content: "b", OldLineNum: num(2)},
		{Kind: Added, Content: "x", NewLineNum: num(2)},
		{Kind: Context, Content: "c", OldLineNum: num(3), NewLineNum: num(3)},
	}

	if len(fileDiff.DiffLines) != len(expected) {
		t.Fatalf("expected %d diff lines, got %d: %v", len(expected), len(fileDiff.DiffLines), fileDiff.UnifiedDiff)
	}
	for i, want := range expected {
		got := fileDiff.DiffLines[i]
		if got.Kind != want.Kind || got.Content != want.Content {
			t.Errorf("line %d: got (%s, %q), want (%s, %q)", i, got.Kind, got.Content, want.Kind, want.Content)
		}
		if !numEqual(got.OldLineNum, want.OldLineNum) {
			t.Errorf("line %d: old line num mismatch", i)
		}
		if !numEqual(got.NewLineNum, want.NewLineNum) {
			t.Errorf("line %d: new line num mismatch", i)
		}
	}
}

func numEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func TestDiffCountsMatchHasChanges(t *testing.T) {
	tt := []struct {
		name     string
		oldLines []string
		newLines []string
	}{
		{"identical", []string{"a\n"}, []string{"a\n"}},
		{"added only", []string{"a\n"}, []string{"a\n", "b\n"}},
		{"removed only", []string{"a\n", "b\n"}, []string{"a\n"}},
		{"replaced", []string{"a\n"}, []string{"b\n"}},
		{"both empty", []string{}, []string{}},
		{"old empty", []string{}, []string{"a\n"}},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			fileDiff := mustDiff(t, tc.oldLines, tc.newLines)
			added, removed := fileDiff.AddedRemoved()
			if (added+removed == 0) == fileDiff.HasChanges {
				t.Errorf("counts (%d+%d) disagree with HasChanges=%v", added, removed, fileDiff.HasChanges)
			}
			summary := fileDiff.Summary()
			if fileDiff.HasChanges == (summary == "No changes detected") {
				t.Errorf("summary %q disagrees with HasChanges=%v", summary, fileDiff.HasChanges)
			}
		})
	}
}

func TestDiffContextWindow(t *testing.T) {
	oldLines := make([]string, 0, 20)
	newLines := make([]string, 0, 20)
	for _, r := range "abcdefghij" {
		oldLines = append(oldLines, string(r)+"\n")
		newLines = append(newLines, string(r)+"\n")
	}
	newLines[5] = "X\n"

	fileDiff, err := Diff("old", "new", oldLines, newLines, Options{Context: 1})
	if err != nil {
		t.Fatalf("Diff returned error: %v", err)
	}
	contexts := 0
	for _, line := range fileDiff.DiffLines {
		if line.Kind == Context {
			contexts++
		}
	}
	if contexts != 2 {
		t.Errorf("expected 2 context lines with a window of 1, got %d", contexts)
	}
}

func TestParseUnifiedMalformedHunkHeader(t *testing.T) {
	unified := []string{
		"--- old",
		"+++ new",
		"@@ garbage @@",
		"-x",
		"+y",
	}
	lines := parseUnified(unified, hunkStarts(strings.Join(unified, "\n")+"\n"))

	if len(lines) != 5 {
		t.Fatalf("expected 5 diff lines, got %d", len(lines))
	}
	if lines[2].Kind != Header {
		t.Error("hunk header should be classified as header even when malformed")
	}
	if lines[3].Kind != Removed || lines[3].OldLineNum != nil {
		t.Error("removed line after malformed hunk header should have no line number")
	}
	if lines[4].Kind != Added || lines[4].NewLineNum != nil {
		t.Error("added line after malformed hunk header should have no line number")
	}
}

func TestLineKindJSON(t *testing.T) {
	tt := []struct {
		kind     LineKind
		expected string
	}{
		{Header, `"header"`},
		{Added, `"added"`},
		{Removed, `"removed"`},
		{Context, `"context"`},
	}
	for _, tc := range tt {
		out, err := tc.kind.MarshalJSON()
		if err != nil {
			t.Fatalf("MarshalJSON returned error: %v", err)
		}
		if string(out) != tc.expected {
			t.Errorf("got %s, want %s", out, tc.expected)
		}
	}
}
