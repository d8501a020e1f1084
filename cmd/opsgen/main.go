// Copyright 2026 The ops-generator Authors. SPDX-License-Identifier: Apache-2.0

// opsgen generates C++ operator wrappers from YAML operator specifications.
//
// Usage:
//
//	opsgen [flags] <spec.yaml|directory>...
//
// Directories are searched recursively for *.yaml / *.yml files. Each
// specification yields one <operator>_op.cc file in the -output directory.
package main

import (
	"flag"
	"fmt"
	"github.com/TopPano/ops-generator/codegen"
	"github.com/TopPano/ops-generator/internal/workerspool"
	"github.com/TopPano/ops-generator/opspec"
	"github.com/TopPano/ops-generator/types"
	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

var (
	flagOutput = flag.String("output", ".", "Directory the generated C++ sources are written to.")
	flagOps    = flag.String("ops", "", "Comma-separated operator names to generate. "+
		"Default is every operator found in the given specification files.")
	flagParallelism = flag.Int("parallelism", runtime.NumCPU(),
		"How many files to generate at once. 0 generates serially, -1 is unlimited.")
	flagDryRun   = flag.Bool("dry_run", false, "Generate everything but write nothing.")
	flagProgress = flag.Bool("progress", false, "Display a progress bar while generating.")
	flagSummary  = flag.Bool("summary", true, "Print a table of the generated files.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		klog.Errorf("Missing operator specification files or directories. See 'opsgen -help'.")
		os.Exit(1)
	}
	paths := must.M1(collectSpecFiles(args))
	if len(paths) == 0 {
		klog.Errorf("No *.yaml or *.yml operator specifications under %s.", strings.Join(args, ", "))
		os.Exit(1)
	}

	specs := loadSpecs(paths)
	specs = filterOps(specs)
	generateAll(specs)

	numFailed := report(specs)
	if numFailed > 0 {
		klog.Errorf("%d of %d specification files failed.", numFailed, len(specs))
		os.Exit(1)
	}
}

// collectSpecFiles expands the command line arguments into a sorted list of
// specification files, searching directories recursively.
func collectSpecFiles(args []string) ([]string, error) {
	found := types.MakeSet[string]()
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			found.Insert(arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, entry os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() {
				return nil
			}
			switch filepath.Ext(path) {
			case ".yaml", ".yml":
				found.Insert(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return types.Sorted(found), nil
}

// spec is one specification file moving through the load / generate pipeline.
type spec struct {
	path   string
	op     *opspec.Operator
	output *codegen.Output
	err    error
}

// loadSpecs parses and validates every file. A failing file is carried along
// with its error so the report stays complete; an operator name defined by two
// files fails the later one.
func loadSpecs(paths []string) []*spec {
	specs := make([]*spec, len(paths))
	definedIn := make(map[string]string)
	for i, path := range paths {
		s := &spec{path: path}
		specs[i] = s
		s.op, s.err = opspec.LoadOperator(path)
		if s.err != nil {
			continue
		}
		if prev, found := definedIn[s.op.Name]; found {
			s.err = errors.Errorf("operator %q already defined in %s", s.op.Name, prev)
			s.op = nil
			continue
		}
		definedIn[s.op.Name] = path
	}
	return specs
}

// filterOps applies -ops: only the selected operators are generated. Selecting
// an operator no specification file defines is an error.
func filterOps(specs []*spec) []*spec {
	if *flagOps == "" {
		return specs
	}
	selected := types.MakeSet[string]()
	for _, name := range strings.Split(*flagOps, ",") {
		selected.Insert(strings.TrimSpace(name))
	}
	known := types.MakeSet[string]()
	for _, s := range specs {
		if s.op != nil {
			known.Insert(s.op.Name)
		}
	}
	if unknown := selected.Sub(known); len(unknown) > 0 {
		klog.Errorf("Operators selected by -ops but not defined by any specification file: %s.",
			strings.Join(types.Sorted(unknown), ", "))
		os.Exit(1)
	}
	kept := make([]*spec, 0, len(specs))
	for _, s := range specs {
		// Files that failed to load are kept: they fail the run either way.
		if s.err != nil || selected.Has(s.op.Name) {
			kept = append(kept, s)
		}
	}
	return kept
}

// generateAll runs codegen over every loaded spec through the workers pool and,
// unless -dry_run is set, writes the generated sources under -output.
func generateAll(specs []*spec) {
	if !*flagDryRun {
		must.M(os.MkdirAll(*flagOutput, 0755))
	}
	var bar *progressbar.ProgressBar
	if *flagProgress {
		bar = progressbar.NewOptions(len(specs),
			progressbar.OptionSetDescription("generating"),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("files"),
			progressbar.OptionSetTheme(progressbar.ThemeASCII),
		)
	}

	pool := workerspool.New(*flagParallelism)
	for _, s := range specs {
		pool.Go(func() {
			defer func() {
				if bar != nil {
					_ = bar.Add(1)
				}
			}()
			if s.err != nil {
				return
			}
			s.output, s.err = codegen.Generate(s.op, filepath.Base(s.path))
			if s.err != nil || *flagDryRun {
				return
			}
			outPath := filepath.Join(*flagOutput, s.output.FileName)
			s.err = os.WriteFile(outPath, []byte(s.output.Source), 0644)
		})
	}
	pool.Wait()
	if bar != nil {
		_ = bar.Finish()
		fmt.Println()
	}
}

var (
	oddRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFF")).
			PaddingLeft(1).PaddingRight(1)
	evenRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#999")).
			PaddingLeft(1).PaddingRight(1)
	headerRowStyle = lipgloss.NewStyle().Reverse(true).
			Padding(0, 2, 0, 2).Align(lipgloss.Center)
)

func newPlainTable() *lgtable.Table {
	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == 1:
				return headerRowStyle
			case row%2 == 0:
				return oddRowStyle
			default:
				return evenRowStyle
			}
		})
}

// report prints warnings, errors, and the summary table, and returns how many
// files failed. Specs arrive and print in path order.
func report(specs []*spec) (numFailed int) {
	var totalBytes uint64
	table := newPlainTable()
	table.Row("File", "Operator", "Generated", "Size", "Status")
	for _, s := range specs {
		if s.err != nil {
			numFailed++
			klog.Errorf("%s: %+v", s.path, s.err)
			table.Row(s.path, opName(s), "", "", "FAILED")
			continue
		}
		for _, warning := range s.output.Warnings {
			klog.Warningf("%s: %s", s.path, warning)
		}
		status := "ok"
		if *flagDryRun {
			status = "dry run"
		}
		size := uint64(len(s.output.Source))
		totalBytes += size
		table.Row(s.path, s.op.Name, s.output.FileName, humanize.Bytes(size), status)
		klog.V(1).Infof("generated %s from %s", s.output.FileName, s.path)
	}
	if *flagSummary {
		fmt.Println(table.Render())
	}
	numOk := len(specs) - numFailed
	if *flagDryRun {
		fmt.Printf("opsgen: %d operators generated (%s), nothing written (-dry_run)\n",
			numOk, humanize.Bytes(totalBytes))
	} else {
		fmt.Printf("opsgen: %d operators generated to %s (%s)\n",
			numOk, *flagOutput, humanize.Bytes(totalBytes))
	}
	return
}

func opName(s *spec) string {
	if s.op != nil {
		return s.op.Name
	}
	return ""
}
