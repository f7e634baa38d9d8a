// Package reconcile compares recorded output against captured output and
// builds the corrected document text.
//
// Reconciliation is pure computation: it never touches the filesystem. The
// caller decides whether the rewritten text is persisted (fix mode) or only
// used to report mismatches and render diffs.
package reconcile

import (
	"strings"

	"github.com/readmeright/readme-right/internal/models"
)

// BlockResult is the reconciliation outcome for one example block.
type BlockResult struct {
	// Body is the block body with every recorded-output span replaced by
	// the captured output. Command lines, leading commentary, and the blank
	// lines separating examples are re-emitted verbatim.
	Body []string

	// Mismatches lists every example whose recorded output differed from
	// the captured output after normalization.
	Mismatches []models.Mismatch
}

// Block reconciles one example block against its execution results.
// results must be parallel to block.Examples.
func Block(path string, block models.ExampleBlock, results []models.ExecutionResult) BlockResult {
	var out BlockResult
	out.Body = append(out.Body, block.Leading...)

	for i, ex := range block.Examples {
		captured := results[i].ComparisonOutput()

		expected := normalizeLines(ex.Output)
		actual := normalizeText(captured)

		out.Body = append(out.Body, ex.CommandLines...)
		if expected == actual {
			// Matching examples keep their recorded span byte-for-byte so a
			// correct file is never rewritten.
			out.Body = append(out.Body, ex.Output...)
			continue
		}

		out.Mismatches = append(out.Mismatches, models.Mismatch{
			Path:     path,
			Line:     ex.Line,
			Command:  ex.Command,
			Expected: expected,
			Actual:   actual,
		})
		if captured != "" {
			out.Body = append(out.Body, strings.Split(captured, "\n")...)
		}
		// Trailing blank lines of the recorded span are formatting
		// whitespace separating examples; keep them as written.
		out.Body = append(out.Body, trailingBlanks(ex.Output)...)
	}

	return out
}

// Rewrite assembles the document text with the given replacement bodies,
// keyed by block index. Blocks without a replacement and all regions outside
// block bodies are byte-identical to the original.
func Rewrite(doc *models.Document, bodies map[int][]string) string {
	out := make([]string, 0, len(doc.Lines))
	prev := 0
	for i, block := range doc.Blocks {
		body, ok := bodies[i]
		if !ok {
			continue
		}
		out = append(out, doc.Lines[prev:block.BodyStart]...)
		out = append(out, body...)
		prev = block.BodyEnd
	}
	out = append(out, doc.Lines[prev:]...)
	return models.JoinLines(out)
}

// normalizeLines joins recorded-output lines for comparison: trailing
// whitespace per line and trailing blank lines are trimmed so formatting
// whitespace never causes spurious mismatches.
func normalizeLines(lines []string) string {
	trimmed := make([]string, len(lines))
	for i, line := range lines {
		trimmed[i] = strings.TrimRight(line, " \t\r")
	}
	for len(trimmed) > 0 && trimmed[len(trimmed)-1] == "" {
		trimmed = trimmed[:len(trimmed)-1]
	}
	return strings.Join(trimmed, "\n")
}

// normalizeText applies the same normalization to captured output.
func normalizeText(text string) string {
	if text == "" {
		return ""
	}
	return normalizeLines(strings.Split(text, "\n"))
}

// trailingBlanks returns the run of blank lines at the end of a recorded
// output span, verbatim.
func trailingBlanks(lines []string) []string {
	i := len(lines)
	for i > 0 && strings.TrimSpace(lines[i-1]) == "" {
		i--
	}
	return lines[i:]
}
