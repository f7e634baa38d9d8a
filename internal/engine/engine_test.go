package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/readmeright/readme-right/internal/config"
	"github.com/readmeright/readme-right/internal/logger"
	"github.com/readmeright/readme-right/internal/models"
)

func newTestEngine(t *testing.T, fix bool) *Engine {
	t.Helper()
	cfg := config.DefaultConfig()
	return New(cfg, logger.NewConsoleLogger(nil, "info"), fix)
}

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "README.md")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readDoc(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestCheckFileMatchingShellExample(t *testing.T) {
	content := "# README\n\n```readme-commands\n$ echo hello\nhello\n```\n"
	path := writeDoc(t, content)

	result := newTestEngine(t, false).CheckFile(context.Background(), path)

	require.Equal(t, models.FileUnchanged, result.Status)
	require.Empty(t, result.Mismatches)
	require.Equal(t, 1, result.Blocks)
	require.Equal(t, 1, result.Examples)
	require.Equal(t, content, readDoc(t, path))
}

func TestCheckFileMatchingExpressionExample(t *testing.T) {
	path := writeDoc(t, "```readme-commands\n>>> 1 + 1\n2\n```\n")

	result := newTestEngine(t, false).CheckFile(context.Background(), path)

	require.Equal(t, models.FileUnchanged, result.Status)
	require.Empty(t, result.Mismatches)
}

func TestCheckFileReportsMismatchWithoutWriting(t *testing.T) {
	content := "```readme-commands\n>>> 1 + 1\n3\n```\n"
	path := writeDoc(t, content)

	result := newTestEngine(t, false).CheckFile(context.Background(), path)

	require.Equal(t, models.FileMismatched, result.Status)
	require.Len(t, result.Mismatches, 1)
	require.Equal(t, "3", result.Mismatches[0].Expected)
	require.Equal(t, "2", result.Mismatches[0].Actual)
	require.NotEmpty(t, result.Diff)
	require.Equal(t, content, readDoc(t, path), "report mode must not modify the file")
}

func TestCheckFileFixRewritesMismatch(t *testing.T) {
	path := writeDoc(t, "```readme-commands\n>>> 1 + 1\n3\n```\n")

	result := newTestEngine(t, true).CheckFile(context.Background(), path)

	require.Equal(t, models.FileCorrected, result.Status)
	require.Len(t, result.Mismatches, 1, "fix mode still reports what it corrected")
	require.Equal(t, "```readme-commands\n>>> 1 + 1\n2\n```\n", readDoc(t, path))
}

func TestCheckFileFixShellExample(t *testing.T) {
	path := writeDoc(t, "```readme-commands\n$ echo hello\nhi\n```\n")

	result := newTestEngine(t, true).CheckFile(context.Background(), path)

	require.Equal(t, models.FileCorrected, result.Status)
	require.Equal(t, "```readme-commands\n$ echo hello\nhello\n```\n", readDoc(t, path))
}

func TestCheckFileBlockScopedState(t *testing.T) {
	// Scenario: x bound with no recorded output, then used by the next
	// example in the same block.
	path := writeDoc(t, "```readme-commands\n>>> x := 5\n>>> x * 2\n10\n```\n")

	result := newTestEngine(t, false).CheckFile(context.Background(), path)

	require.Equal(t, models.FileUnchanged, result.Status)
	require.Empty(t, result.Mismatches)
}

func TestCheckFileStateDoesNotLeakAcrossBlocks(t *testing.T) {
	path := writeDoc(t, "```readme-commands\n>>> x := 5\n```\n\n```readme-commands\n>>> x * 2\n10\n```\n")

	result := newTestEngine(t, false).CheckFile(context.Background(), path)

	require.Equal(t, models.FileMismatched, result.Status)
	require.Len(t, result.Mismatches, 1)
	require.True(t, strings.HasPrefix(result.Mismatches[0].Actual, "*** "),
		"the second block must not see bindings from the first, got %q", result.Mismatches[0].Actual)
}

func TestCheckFileOrderedShellSideEffects(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	path := writeDoc(t, "```readme-commands\n$ echo data > state.txt\n$ cat state.txt\ndata\n```\n")

	result := newTestEngine(t, false).CheckFile(context.Background(), path)

	require.Equal(t, models.FileUnchanged, result.Status, "mismatches: %v", result.Mismatches)
}

func TestCheckFileIsolationOfUntaggedText(t *testing.T) {
	content := "# Title\n\nprose stays\n\n```bash\n$ echo untouched\nnever run\n```\n\n```readme-commands\n$ echo hello\nstale\n```\n\ntail prose\n"
	path := writeDoc(t, content)

	result := newTestEngine(t, true).CheckFile(context.Background(), path)
	require.Equal(t, models.FileCorrected, result.Status)

	updated := readDoc(t, path)
	for _, fragment := range []string{"# Title", "prose stays", "```bash\n$ echo untouched\nnever run\n```", "tail prose"} {
		require.Contains(t, updated, fragment)
	}
	require.Contains(t, updated, "$ echo hello\nhello\n")
}

func TestCheckFileFixIsIdempotent(t *testing.T) {
	path := writeDoc(t, "```readme-commands\n$ echo hello\nstale\n\n>>> 21 * 2\nstale too\n```\n")

	eng := newTestEngine(t, true)
	first := eng.CheckFile(context.Background(), path)
	require.Equal(t, models.FileCorrected, first.Status)

	afterFirst := readDoc(t, path)

	second := eng.CheckFile(context.Background(), path)
	require.Equal(t, models.FileUnchanged, second.Status, "second fix run must be a no-op")
	require.Equal(t, afterFirst, readDoc(t, path))
}

func TestCheckFileFailedCommandDocumentedAsOutput(t *testing.T) {
	path := writeDoc(t, "```readme-commands\n$ sh -c 'echo broken >&2; exit 1'\nstale\n```\n")

	result := newTestEngine(t, true).CheckFile(context.Background(), path)

	require.Equal(t, models.FileCorrected, result.Status)
	require.Contains(t, readDoc(t, path), "broken", "failure text becomes the example's output")
}

func TestCheckFileEmptyBlockIsNoop(t *testing.T) {
	content := "```readme-commands\nno markers here\n```\n"
	path := writeDoc(t, content)

	result := newTestEngine(t, true).CheckFile(context.Background(), path)

	require.Equal(t, models.FileUnchanged, result.Status)
	require.Equal(t, 1, result.Blocks)
	require.Equal(t, 0, result.Examples)
	require.Equal(t, content, readDoc(t, path))
}

func TestCheckFileUnreadable(t *testing.T) {
	result := newTestEngine(t, false).CheckFile(context.Background(), filepath.Join(t.TempDir(), "missing.md"))

	require.Equal(t, models.FileErrored, result.Status)
	require.Error(t, result.Err)
}

func TestCheckFileParseErrorSkipsBlockButFixesOthers(t *testing.T) {
	content := "```readme-commands\n... orphan continuation\n```\n\n```readme-commands\n$ echo hello\nstale\n```\n"
	path := writeDoc(t, content)

	result := newTestEngine(t, true).CheckFile(context.Background(), path)

	require.Equal(t, models.FileErrored, result.Status)
	require.Len(t, result.ParseErrs, 1)

	updated := readDoc(t, path)
	require.Contains(t, updated, "... orphan continuation", "broken block left untouched")
	require.Contains(t, updated, "$ echo hello\nhello\n", "healthy block still corrected")
}

func TestRunBatchContinuesPastBrokenFile(t *testing.T) {
	good := writeDoc(t, "```readme-commands\n$ echo ok\nok\n```\n")
	missing := filepath.Join(t.TempDir(), "missing.md")

	summary := newTestEngine(t, false).Run(context.Background(), []string{missing, good})

	require.Len(t, summary.Results, 2)
	require.Equal(t, models.FileErrored, summary.Results[0].Status)
	require.Equal(t, models.FileUnchanged, summary.Results[1].Status)
	require.True(t, summary.Failed())
}

func TestRunParallelKeepsResultOrder(t *testing.T) {
	var paths []string
	for i := 0; i < 4; i++ {
		paths = append(paths, writeDoc(t, "```readme-commands\n$ echo ok\nok\n```\n"))
	}

	cfg := config.DefaultConfig()
	cfg.MaxConcurrency = 3
	eng := New(cfg, logger.NewConsoleLogger(nil, "info"), false)

	summary := eng.Run(context.Background(), paths)

	require.Len(t, summary.Results, len(paths))
	for i, result := range summary.Results {
		require.Equal(t, paths[i], result.Path, "results must keep input order")
		require.Equal(t, models.FileUnchanged, result.Status)
	}
	require.False(t, summary.Failed())
	require.Equal(t, 4, summary.Unchanged)
}

func TestRunSummaryCounts(t *testing.T) {
	clean := writeDoc(t, "```readme-commands\n$ echo a\na\n```\n")
	stale := writeDoc(t, "```readme-commands\n$ echo b\nwrong\n```\n")

	summary := newTestEngine(t, false).Run(context.Background(), []string{clean, stale})

	require.Equal(t, 1, summary.Unchanged)
	require.Equal(t, 1, summary.Mismatched)
	require.Equal(t, 0, summary.Corrected)
	require.Equal(t, 2, summary.Blocks)
	require.Equal(t, 2, summary.Examples)
}
