package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/confdiff/confdiff/internal/app"
	"github.com/confdiff/confdiff/pkg/confdiff"
)

func main() {
	var configDir string
	var verbose bool

	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version",
		Usage: "Print version",
	}

	cliApp := &cli.App{
		Name:        "confdiff",
		Usage:       "Compare two configuration snapshot folders",
		Version:     "v0.2.0",
		Description: "Matches components and config files between an OLD and a NEW snapshot, computes unified diffs, and optionally appends changed files to an Excel log.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Value:       ".",
				Usage:       "Directory containing confdiff.toml",
				Destination: &configDir,
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Aliases:     []string{"v"},
				Usage:       "Verbose output",
				Destination: &verbose,
			},
		},
		Commands: []*cli.Command{
			{
				Name:        "compare",
				Aliases:     []string{"c"},
				Usage:       "Compare two individual config files",
				UsageText:   "confdiff compare [options] <old-file> <new-file>",
				Description: "Compare two files and print the unified diff with a change summary.",
				Flags:       []cli.Flag{jsonFlag()},
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() != 2 {
						return fmt.Errorf("expected exactly two file arguments")
					}
					a := newApp(configDir, verbose)
					fileDiff, err := a.CompareFiles(cCtx.Args().Get(0), cCtx.Args().Get(1))
					if err != nil {
						return err
					}
					if cCtx.Bool("json") {
						return printJSON(fileDiff)
					}
					printDiff(fileDiff)
					return nil
				},
			},
			{
				Name:        "scan",
				Aliases:     []string{"s"},
				Usage:       "Scan two snapshot folders and list matched file pairs",
				UsageText:   "confdiff scan [options] <old-folder> <new-folder>",
				Description: "Match components and config files between the two folders without computing diffs.",
				Flags:       []cli.Flag{jsonFlag()},
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() != 2 {
						return fmt.Errorf("expected exactly two folder arguments")
					}
					a := newApp(configDir, verbose)
					result, err := a.ScanFolders(cCtx.Args().Get(0), cCtx.Args().Get(1))
					if err != nil {
						return err
					}
					if cCtx.Bool("json") {
						return printJSON(result)
					}
					printScan(result)
					return nil
				},
			},
			{
				Name:        "folders",
				Aliases:     []string{"f"},
				Usage:       "Compare two snapshot folders, optionally logging changes to Excel",
				UsageText:   "confdiff folders [options] <old-folder> <new-folder>",
				Description: "Run the full comparison over both folders. With --log, one row per changed file is appended to the Excel workbook.",
				Flags: []cli.Flag{
					jsonFlag(),
					&cli.StringFlag{
						Name:    "log",
						Aliases: []string{"l"},
						Usage:   "Path to the Excel log workbook (.xlsx)",
					},
				},
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() != 2 {
						return fmt.Errorf("expected exactly two folder arguments")
					}
					a := newApp(configDir, verbose)
					run, err := a.CompareAndUpdate(cCtx.Args().Get(0), cCtx.Args().Get(1), cCtx.String("log"))
					if err != nil {
						return err
					}
					if cCtx.Bool("json") {
						return printJSON(run)
					}
					printRun(run)
					return nil
				},
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "json",
		Aliases: []string{"j"},
		Usage:   "Print the result as JSON",
	}
}

func newApp(configDir string, verbose bool) *app.App {
	return app.New(app.Config{
		ConfigDir:     configDir,
		Verbose:       verbose,
		InfoBuffer:    os.Stderr,
		WarningBuffer: os.Stderr,
	})
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

var (
	addedColor   = color.New(color.FgGreen)
	removedColor = color.New(color.FgRed)
	headerColor  = color.New(color.FgCyan)
)

func printDiff(fileDiff *confdiff.FileDiff) {
	for _, line := range fileDiff.UnifiedDiff {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"), strings.HasPrefix(line, "@@"):
			_, _ = headerColor.Println(line)
		case strings.HasPrefix(line, "+"):
			_, _ = addedColor.Println(line)
		case strings.HasPrefix(line, "-"):
			_, _ = removedColor.Println(line)
		default:
			fmt.Println(line)
		}
	}
	fmt.Println(fileDiff.Summary())
}

func printScan(result *confdiff.ScanResult) {
	for _, pair := range result.MatchedPairs {
		fmt.Printf("%s/%s\n  old: %s\n  new: %s\n", pair.ComponentName, pair.ConfigFileName, pair.OldPath, pair.NewPath)
	}
	for _, comp := range result.OldOnly {
		fmt.Printf("%s: Missing in NEW folder\n", comp)
	}
	for _, comp := range result.NewOnly {
		fmt.Printf("%s: Missing in OLD folder\n", comp)
	}
}

func printRun(run *app.RunResult) {
	for _, line := range run.Comparison.Summary {
		fmt.Println(line)
	}
	for _, msg := range run.Comparison.Errors {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	}
	fmt.Println(run.Summary)
}
