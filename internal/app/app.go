// Package app wires the scanner, matcher, diff engine, and Excel logger
// behind the operation surface used by the CLI.
package app

import (
	"errors"
	"fmt"
	"io"

	"github.com/confdiff/confdiff/internal/config"
	"github.com/confdiff/confdiff/internal/fsutil"
	"github.com/confdiff/confdiff/internal/scan"
	"github.com/confdiff/confdiff/internal/xlsxlog"
	"github.com/confdiff/confdiff/pkg/confdiff"
	f "github.com/confdiff/confdiff/pkg/functional"
)

// ErrNotFound marks a request naming a path that does not exist or is not
// the expected type. Callers should treat it as a bad request, not a crash.
var ErrNotFound = errors.New("not found")

// Config holds the application configuration
type Config struct {
	ConfigDir     string
	Verbose       bool
	InfoBuffer    io.Writer
	WarningBuffer io.Writer
}

// App represents the application with its dependencies
type App struct {
	Conf    *config.Config
	config  *Config
	scanner *scan.Scanner
}

// New creates an App, loading confdiff.toml from cfg.ConfigDir. A broken
// settings file downgrades to the defaults with a warning.
func New(cfg Config) *App {
	if cfg.InfoBuffer == nil {
		cfg.InfoBuffer = io.Discard
	}
	if cfg.WarningBuffer == nil {
		cfg.WarningBuffer = io.Discard
	}

	conf, err := config.ReadConfig(cfg.ConfigDir)
	if err != nil {
		fmt.Fprintf(cfg.WarningBuffer, "WARNING: Error reading %s - using default config: %v\n", config.FileName, err)
	}

	return &App{
		Conf:    conf,
		config:  &cfg,
		scanner: scan.New(conf.Ignore, cfg.WarningBuffer),
	}
}

func (a *App) printDebug(format string, args ...interface{}) {
	if a.config.Verbose {
		_, _ = fmt.Fprintf(a.config.InfoBuffer, format, args...)
	}
}

func (a *App) printWarn(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(a.config.WarningBuffer, format, args...)
}

func (a *App) diffOptions() confdiff.Options {
	return confdiff.Options{Context: a.Conf.ContextLines}
}

// CompareFiles diffs two individual files on disk.
func (a *App) CompareFiles(oldPath, newPath string) (*confdiff.FileDiff, error) {
	if !fsutil.PathExists(oldPath) {
		return nil, fmt.Errorf("old file %s: %w", oldPath, ErrNotFound)
	}
	if !fsutil.PathExists(newPath) {
		return nil, fmt.Errorf("new file %s: %w", newPath, ErrNotFound)
	}
	return a.compare(oldPath, newPath)
}

func (a *App) compare(oldPath, newPath string) (*confdiff.FileDiff, error) {
	oldLines, err := fsutil.ReadTextLines(oldPath, a.Conf.Policy())
	if err != nil {
		return nil, err
	}
	newLines, err := fsutil.ReadTextLines(newPath, a.Conf.Policy())
	if err != nil {
		return nil, err
	}
	return confdiff.Diff(fsutil.Filename(oldPath), fsutil.Filename(newPath), oldLines, newLines, a.diffOptions())
}

// CompareReaders diffs two in-memory documents, e.g. an uploaded file pair,
// independent of the filesystem.
func (a *App) CompareReaders(oldName, newName string, oldReader, newReader io.Reader) (*confdiff.FileDiff, error) {
	oldBytes, err := io.ReadAll(oldReader)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", oldName, err)
	}
	newBytes, err := io.ReadAll(newReader)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", newName, err)
	}
	policy := a.Conf.Policy()
	return confdiff.Diff(oldName, newName,
		fsutil.SplitLines(policy.Apply(string(oldBytes))),
		fsutil.SplitLines(policy.Apply(string(newBytes))),
		a.diffOptions())
}

func (a *App) checkRoots(oldRoot, newRoot string) error {
	if !fsutil.IsDir(oldRoot) {
		return fmt.Errorf("old folder %s: %w", oldRoot, ErrNotFound)
	}
	if !fsutil.IsDir(newRoot) {
		return fmt.Errorf("new folder %s: %w", newRoot, ErrNotFound)
	}
	return nil
}

// ScanFolders scans both roots and matches components and config files
// without computing any diffs.
func (a *App) ScanFolders(oldRoot, newRoot string) (*confdiff.ScanResult, error) {
	if err := a.checkRoots(oldRoot, newRoot); err != nil {
		return nil, err
	}
	a.printDebug("Scanning %s and %s\n", oldRoot, newRoot)
	result := confdiff.Match(a.scanner.Scan(oldRoot), a.scanner.Scan(newRoot))
	return &result, nil
}

// CompareFolders runs the full pipeline: scan, match, and diff every matched
// pair. Per-file read errors are recorded and processing continues.
func (a *App) CompareFolders(oldRoot, newRoot string) (*confdiff.ComparisonResult, error) {
	scanResult, err := a.ScanFolders(oldRoot, newRoot)
	if err != nil {
		return nil, err
	}

	result := &confdiff.ComparisonResult{
		FileDiffs: []*confdiff.FileDiff{},
		Errors:    []string{},
		Summary:   []string{},
	}

	for _, pair := range scanResult.MatchedPairs {
		if !fsutil.PathExists(pair.OldPath) || !fsutil.PathExists(pair.NewPath) {
			msg := fmt.Sprintf("Config not found for %s, skipping %s", pair.ComponentName, pair.ConfigFileName)
			result.Errors = append(result.Errors, msg)
			result.Summary = append(result.Summary, msg)
			continue
		}

		fileDiff, err := a.compare(pair.OldPath, pair.NewPath)
		if err != nil {
			a.printWarn("WARNING: %v\n", err)
			result.Errors = append(result.Errors, fmt.Sprintf("Error reading files for %s/%s", pair.ComponentName, pair.ConfigFileName))
			continue
		}
		fileDiff.ComponentName = pair.ComponentName

		result.Summary = append(result.Summary, fmt.Sprintf("%s/%s: %s", pair.ComponentName, pair.ConfigFileName, fileDiff.Summary()))
		result.FileDiffs = append(result.FileDiffs, fileDiff)
	}

	for _, comp := range scanResult.OldOnly {
		result.Summary = append(result.Summary, fmt.Sprintf("%s: Missing in NEW folder", comp))
	}
	for _, comp := range scanResult.NewOnly {
		result.Summary = append(result.Summary, fmt.Sprintf("%s: Missing in OLD folder", comp))
	}

	result.TotalComponents = len(f.RemoveDuplicates(f.Map(scanResult.MatchedPairs, func(p confdiff.FilePair) string {
		return p.ComponentName
	})))
	result.ComponentsWithChanges = len(f.Filtered(result.FileDiffs, func(fd *confdiff.FileDiff) bool {
		return fd.HasChanges
	}))
	return result, nil
}

// UpdateLog appends the changed files to the Excel log at logPath.
func (a *App) UpdateLog(logPath string, diffs []*confdiff.FileDiff) xlsxlog.Result {
	return xlsxlog.Update(logPath, a.Conf.SheetName, diffs)
}

// RunResult is the composite outcome of a folder comparison plus an optional
// Excel log update.
type RunResult struct {
	Comparison *confdiff.ComparisonResult `json:"comparison"`
	LogUpdate  *xlsxlog.Result            `json:"excel_update"`
	Summary    string                     `json:"summary"`
}

// CompareAndUpdate compares two folders and, when logPath is non-empty,
// appends the changed files to the Excel log. A failed log update is
// reported in the result, not as an error.
func (a *App) CompareAndUpdate(oldRoot, newRoot, logPath string) (*RunResult, error) {
	comparison, err := a.CompareFolders(oldRoot, newRoot)
	if err != nil {
		return nil, err
	}

	run := &RunResult{Comparison: comparison}
	logMessage := "Excel update skipped."
	if logPath != "" {
		logResult := a.UpdateLog(logPath, comparison.FileDiffs)
		run.LogUpdate = &logResult
		logMessage = logResult.Message
		if !logResult.Success {
			a.printWarn("WARNING: %s\n", logResult.Message)
		}
	}
	run.Summary = fmt.Sprintf("Compared %d components. Found changes in %d components. %s",
		comparison.TotalComponents, comparison.ComponentsWithChanges, logMessage)
	return run, nil
}
