// Package engine drives the check pipeline for each file: read, extract,
// execute, reconcile, and (in fix mode) write back.
//
// Examples within a file always run strictly in document order because later
// interactive examples may reference bindings created by earlier ones and
// shell examples may depend on filesystem side effects. Independent files
// share no mutable state and may be processed in parallel.
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/readmeright/readme-right/internal/config"
	"github.com/readmeright/readme-right/internal/logger"
	"github.com/readmeright/readme-right/internal/models"
	"github.com/readmeright/readme-right/internal/parser"
	"github.com/readmeright/readme-right/internal/reconcile"
	"github.com/readmeright/readme-right/internal/runner"
	"github.com/readmeright/readme-right/internal/updater"
)

// Engine checks documentation files against their recorded command output.
type Engine struct {
	cfg       *config.Config
	log       *logger.ConsoleLogger
	fix       bool
	extractor *parser.Extractor
}

// New creates an engine. When fix is true, mismatched files are corrected in
// place; otherwise mismatches are only reported.
func New(cfg *config.Config, log *logger.ConsoleLogger, fix bool) *Engine {
	return &Engine{
		cfg:       cfg,
		log:       log,
		fix:       fix,
		extractor: parser.NewExtractor(),
	}
}

// Run checks every file and returns the aggregated summary. Per-file
// failures never abort the batch. Results keep the order of paths even when
// files are processed in parallel.
func (e *Engine) Run(ctx context.Context, paths []string) *models.Summary {
	start := time.Now()
	runID := uuid.NewString()[:8]
	e.log.Debugf("run %s: checking %d file(s)", runID, len(paths))

	summary := &models.Summary{}

	workers := e.cfg.MaxConcurrency
	if workers <= 1 || len(paths) == 1 {
		for _, path := range paths {
			summary.Add(e.CheckFile(ctx, path))
		}
	} else {
		semaphore := make(chan struct{}, workers)
		resultsCh := make(chan models.FileResult, len(paths))

		var wg sync.WaitGroup
		for _, path := range paths {
			wg.Add(1)
			semaphore <- struct{}{}
			go func(path string) {
				defer wg.Done()
				defer func() { <-semaphore }()
				resultsCh <- e.CheckFile(ctx, path)
			}(path)
		}
		wg.Wait()
		close(resultsCh)

		byPath := make(map[string]models.FileResult, len(paths))
		for result := range resultsCh {
			byPath[result.Path] = result
		}
		for _, path := range paths {
			summary.Add(byPath[path])
		}
	}

	summary.Duration = time.Since(start)
	e.log.Debugf("run %s: %d unchanged, %d corrected, %d mismatched, %d errored in %s",
		runID, summary.Unchanged, summary.Corrected, summary.Mismatched, summary.Errored,
		summary.Duration.Round(time.Millisecond))
	return summary
}

// CheckFile runs every example block in one file and reconciles the result.
// I/O failures abort this file only.
func (e *Engine) CheckFile(ctx context.Context, path string) models.FileResult {
	start := time.Now()
	result := models.FileResult{Path: path}
	defer func() { result.Duration = time.Since(start) }()

	content, err := os.ReadFile(path)
	if err != nil {
		result.Status = models.FileErrored
		result.Err = fmt.Errorf("failed to read %s: %w", path, err)
		return result
	}
	original := string(content)

	doc := e.extractor.Extract(path, content)
	result.Blocks = len(doc.Blocks)

	shell := runner.NewShellRunner(e.cfg.Shell, "")
	bodies := make(map[int][]string)

	for i := range doc.Blocks {
		block := &doc.Blocks[i]
		if block.Err != nil {
			var blockErr *models.BlockError
			if errors.As(block.Err, &blockErr) {
				result.ParseErrs = append(result.ParseErrs, blockErr)
			}
			e.log.Warnf("%s: skipping block at line %d: %v", path, block.FenceLine+1, block.Err)
			continue
		}
		if block.Empty() {
			continue
		}

		result.Examples += len(block.Examples)
		results := e.runBlock(ctx, shell, block)
		reconciled := reconcile.Block(path, *block, results)
		bodies[i] = reconciled.Body
		result.Mismatches = append(result.Mismatches, reconciled.Mismatches...)
	}

	updated := reconcile.Rewrite(doc, bodies)
	result.Diff = reconcile.Unified(original, updated)

	if e.fix && updated != original {
		changed, err := updater.WriteIfChanged(path, content, []byte(updated),
			updater.WithMonitor(func(m updater.UpdateMetrics) {
				e.log.Debugf("%s: wrote %d bytes in %s", m.Path, m.BytesWritten, m.Duration.Round(time.Millisecond))
			}))
		if err != nil {
			result.Status = models.FileErrored
			result.Err = fmt.Errorf("failed to update %s: %w", path, err)
			return result
		}
		if changed {
			result.Status = models.FileCorrected
		}
	}

	switch {
	case len(result.ParseErrs) > 0:
		result.Status = models.FileErrored
	case result.Status == models.FileCorrected:
		// Already settled by the write above.
	case updated != original:
		result.Status = models.FileMismatched
	default:
		result.Status = models.FileUnchanged
	}

	e.log.Debugf("%s: %d block(s), %d example(s), %s", path, result.Blocks, result.Examples, result.Status)
	return result
}

// runBlock executes the block's examples in source order. Interactive
// examples share one evaluation session created at block entry and discarded
// at block exit; shell examples each get a fresh subprocess.
func (e *Engine) runBlock(ctx context.Context, shell runner.Runner, block *models.ExampleBlock) []models.ExecutionResult {
	var session *runner.ExprSession
	results := make([]models.ExecutionResult, 0, len(block.Examples))

	for _, ex := range block.Examples {
		runCtx := ctx
		cancel := context.CancelFunc(nil)
		if e.cfg.Timeout > 0 {
			runCtx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		}

		var res models.ExecutionResult
		switch ex.Style {
		case models.StyleExpression:
			if session == nil {
				var err error
				session, err = runner.NewExprSession()
				if err != nil {
					// The interpreter could not be set up; document the
					// failure as the example's output like any other.
					res = models.ExecutionResult{Stdout: "*** " + err.Error(), Failed: true}
					results = append(results, res)
					if cancel != nil {
						cancel()
					}
					continue
				}
			}
			res = session.Run(runCtx, ex)
		case models.StyleShell:
			res = shell.Run(runCtx, ex)
		}

		if cancel != nil {
			cancel()
		}
		results = append(results, res)
	}

	return results
}
