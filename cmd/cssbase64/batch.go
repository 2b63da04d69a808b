package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	cssbase64 "github.com/alnah/go-cssbase64"
	"github.com/alnah/go-cssbase64/internal/fileutil"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: stylesheets are served to browsers
)

// maxWorkers caps parallel documents; each one holds its text in memory.
const maxWorkers = 64

// Sentinel errors for batch operations.
var (
	ErrNoInput   = errors.New("no input specified")
	ErrReadCSS   = errors.New("failed to read stylesheet")
	ErrWriteCSS  = errors.New("failed to write stylesheet")
	ErrOutputDir = errors.New("failed to create output directory")
)

// DocumentProcessor is the part of the engine the batch needs.
type DocumentProcessor interface {
	Process(ctx context.Context, doc cssbase64.Document) (cssbase64.Document, error)
}

// Compile-time interface implementation check.
var _ DocumentProcessor = (*cssbase64.Engine)(nil)

// FileToProcess pairs a stylesheet with where its rewrite goes.
type FileToProcess struct {
	InputPath  string
	OutputPath string
}

// ProcessResult holds the outcome of a single document.
type ProcessResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// planFiles maps each input to its output path. An empty outputDir rewrites
// in place; otherwise files keep their base name inside outputDir.
func planFiles(inputs []string, outputDir string) []FileToProcess {
	files := make([]FileToProcess, 0, len(inputs))
	for _, in := range inputs {
		out := in
		if outputDir != "" {
			out = filepath.Join(outputDir, filepath.Base(in))
		}
		files = append(files, FileToProcess{InputPath: in, OutputPath: out})
	}
	return files
}

// resolveWorkers returns the explicit count, or GOMAXPROCS (set by
// automaxprocs) bounded to [1, maxWorkers].
func resolveWorkers(n int) int {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	return max(1, min(n, maxWorkers))
}

// processBatch rewrites files concurrently. Each document is independent:
// a failure is recorded in its result and never cancels the others.
func processBatch(ctx context.Context, proc DocumentProcessor, files []FileToProcess, workers int) []ProcessResult {
	if len(files) == 0 {
		return nil
	}

	results := make([]ProcessResult, len(files))

	var g errgroup.Group
	g.SetLimit(min(workers, len(files)))

	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = ProcessResult{InputPath: f.InputPath, Err: err}
				return nil
			}
			results[i] = processFile(ctx, proc, f)
			return nil
		})
	}

	_ = g.Wait() // workers never return errors
	return results
}

// processFile reads, rewrites, and atomically writes one stylesheet.
func processFile(ctx context.Context, proc DocumentProcessor, f FileToProcess) ProcessResult {
	start := time.Now()
	result := ProcessResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	done := func(err error) ProcessResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- path given on the command line
	if err != nil {
		return done(fmt.Errorf("%w: %w", ErrReadCSS, err))
	}

	out, err := proc.Process(ctx, cssbase64.Document{Path: f.InputPath, Contents: content})
	if err != nil {
		return done(err)
	}

	if err := fileutil.WriteFileAtomic(f.OutputPath, out.Contents, filePermissions); err != nil {
		return done(fmt.Errorf("%w: %w", ErrWriteCSS, err))
	}

	return done(nil)
}

// ResultSummary holds the count of succeeded and failed documents.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed documents.
func countResults(results []ProcessResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs per-document results and returns the failure count.
func printResults(results []ProcessResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}

// firstError returns the first failure, used to pick the exit code.
func firstError(results []ProcessResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
