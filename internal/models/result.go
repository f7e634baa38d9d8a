package models

import (
	"strings"
	"time"
)

// SplitLines splits document text on "\n". Carriage returns are left on the
// line so the document can be reassembled byte-for-byte.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}

// JoinLines is the inverse of SplitLines.
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

// ExecutionResult is what a runner captured for one example.
//
// Stdout and Stderr are kept separate. The comparison stream used by the
// reconciler is Stdout, falling back to Stderr when Stdout is empty, so a
// command that only writes to stderr still documents its failure text.
type ExecutionResult struct {
	// Stdout is the captured standard output with a single trailing newline
	// trimmed, matching what a terminal user would see. For interactive
	// examples it holds printed output and/or the expression's value.
	Stdout string

	// Stderr is the captured standard error, same trimming as Stdout.
	Stderr string

	// Failed marks a non-zero exit status or a raised evaluation error. A
	// failed result still reconciles like any other output; the tool does
	// not abort on a failing example.
	Failed bool
}

// ComparisonOutput returns the stream compared against recorded output:
// stdout, else stderr when stdout is empty.
func (r ExecutionResult) ComparisonOutput() string {
	if r.Stdout != "" {
		return r.Stdout
	}
	return r.Stderr
}

// Mismatch records one example whose recorded output differs from what the
// command actually produced.
type Mismatch struct {
	// Path is the file the example came from.
	Path string

	// Line is the 1-based line of the command marker.
	Line int

	// Command is the prefix-stripped command text.
	Command string

	// Expected is the normalized recorded output.
	Expected string

	// Actual is the normalized captured output.
	Actual string
}

// FileStatus classifies the outcome of processing one file.
type FileStatus int

const (
	// FileUnchanged means every recorded output already matched.
	FileUnchanged FileStatus = iota

	// FileCorrected means fix mode rewrote the file. The surrounding hook
	// convention still treats this as a failure signal; a second run
	// confirms stability.
	FileCorrected

	// FileMismatched means mismatches were found and left in place
	// (report mode).
	FileMismatched

	// FileErrored means the file could not be processed: an I/O failure or
	// a block-level parse error.
	FileErrored
)

// String returns a human-readable name for the status.
func (s FileStatus) String() string {
	switch s {
	case FileUnchanged:
		return "unchanged"
	case FileCorrected:
		return "corrected"
	case FileMismatched:
		return "mismatched"
	default:
		return "errored"
	}
}

// FileResult is the outcome of running every example block in one file.
type FileResult struct {
	Path       string
	Status     FileStatus
	Blocks     int
	Examples   int
	Mismatches []Mismatch

	// Diff is the unified diff between the committed text and the corrected
	// text, empty when nothing would change.
	Diff string

	// ParseErrs holds per-block structural errors. The affected blocks were
	// skipped; the rest of the file was still processed.
	ParseErrs []*BlockError

	// Err is a file-level failure (unreadable, unwritable). It aborts this
	// file only, never the batch.
	Err error

	Duration time.Duration
}

// Failed reports whether this file should fail the run: any mismatch, any
// correction applied, or any error.
func (r FileResult) Failed() bool {
	return r.Status != FileUnchanged
}

// Summary aggregates file results for the exit/result contract.
type Summary struct {
	Results    []FileResult
	Unchanged  int
	Corrected  int
	Mismatched int
	Errored    int
	Blocks     int
	Examples   int
	Duration   time.Duration
}

// Add folds one file result into the summary.
func (s *Summary) Add(r FileResult) {
	s.Results = append(s.Results, r)
	s.Blocks += r.Blocks
	s.Examples += r.Examples
	switch r.Status {
	case FileUnchanged:
		s.Unchanged++
	case FileCorrected:
		s.Corrected++
	case FileMismatched:
		s.Mismatched++
	case FileErrored:
		s.Errored++
	}
}

// Failed reports whether the run as a whole should exit non-zero.
func (s *Summary) Failed() bool {
	return s.Corrected > 0 || s.Mismatched > 0 || s.Errored > 0
}
