package fsutil

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSplitLines(t *testing.T) {
	tt := []struct {
		name     string
		text     string
		expected []string
	}{
		{"empty", "", []string{}},
		{"single line no newline", "a", []string{"a\n"}},
		{"single line with newline", "a\n", []string{"a\n"}},
		{"multiple lines", "a\nb\n", []string{"a\n", "b\n"}},
		{"missing final newline", "a\nb", []string{"a\n", "b\n"}},
		{"blank lines preserved", "a\n\nb\n", []string{"a\n", "\n", "b\n"}},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got := SplitLines(tc.text)
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("SplitLines(%q) = %q, want %q", tc.text, got, tc.expected)
			}
		})
	}
}

func TestInvalidUTF8Apply(t *testing.T) {
	input := "ok\xffend"
	if got := Replace.Apply(input); got != "ok�end" {
		t.Errorf("Replace policy produced %q", got)
	}
	if got := Drop.Apply(input); got != "okend" {
		t.Errorf("Drop policy produced %q", got)
	}
	if got := Replace.Apply("clean"); got != "clean" {
		t.Errorf("valid text should pass through, got %q", got)
	}
}

func TestPathChecks(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if !PathExists(file) || !PathExists(dir) {
		t.Error("existing paths should be reported as present")
	}
	if PathExists(filepath.Join(dir, "missing")) {
		t.Error("missing path should not be reported as present")
	}
	if !IsDir(dir) {
		t.Error("directory should be reported as a directory")
	}
	if IsDir(file) {
		t.Error("file should not be reported as a directory")
	}
}

func TestFilename(t *testing.T) {
	if got := Filename(filepath.Join("a", "b", "config.yaml")); got != "config.yaml" {
		t.Errorf("Filename returned %q", got)
	}
}

func TestReadTextLines(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "conf.txt")
	if err := os.WriteFile(file, []byte("a\nb"), 0o644); err != nil {
		t.Fatal(err)
	}

	lines, err := ReadTextLines(file, Replace)
	if err != nil {
		t.Fatalf("ReadTextLines returned error: %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"a\n", "b\n"}) {
		t.Errorf("unexpected lines: %q", lines)
	}

	if _, err := ReadTextLines(filepath.Join(dir, "missing"), Replace); err == nil {
		t.Error("expected an error for a missing file")
	}
}
