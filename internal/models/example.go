// Package models defines the shared value types passed between the block
// extractor, the command runners, the reconciler, and the file updater.
package models

import "fmt"

// Style identifies how an example's command text is executed.
type Style int

const (
	// StyleUnknown is the zero value; no runner accepts it.
	StyleUnknown Style = iota

	// StyleExpression marks an interactive example (">>> " prefix) evaluated
	// in a persistent interpreter scoped to the enclosing block.
	StyleExpression

	// StyleShell marks a shell example ("$ " prefix) executed as a
	// subprocess.
	StyleShell
)

// String returns a human-readable name for the style.
func (s Style) String() string {
	switch s {
	case StyleExpression:
		return "expression"
	case StyleShell:
		return "shell"
	default:
		return "unknown"
	}
}

// Example is one command and the output the document claims it produces.
type Example struct {
	// Style determines which runner executes the command.
	Style Style

	// Command is the prefix-stripped command text. For interactive examples
	// spanning multiple source lines, continuation lines are joined with
	// newlines.
	Command string

	// CommandLines holds the verbatim source lines of the command, prefixes
	// included. The reconciler re-emits these untouched when rewriting.
	CommandLines []string

	// Output holds the verbatim recorded-output lines that followed the
	// command in the source, up to the next command marker or the end of the
	// block. Trailing blank lines are separator whitespace, preserved on
	// rewrite but ignored for comparison.
	Output []string

	// Line is the 1-based line number of the command marker in the document.
	Line int
}

// ExampleBlock is one fenced region tagged as containing executable examples.
type ExampleBlock struct {
	// FenceLine is the 0-based index of the opening fence line in the
	// document's line slice.
	FenceLine int

	// BodyStart and BodyEnd delimit the block body: document lines
	// [BodyStart, BodyEnd) sit between the opening and closing fences.
	BodyStart int
	BodyEnd   int

	// Leading holds verbatim commentary lines that appeared before the first
	// command marker. They carry no examples and are re-emitted untouched.
	Leading []string

	// Examples are the block's command/output pairs in source order.
	Examples []Example

	// Err records a structural problem splitting the body into pairs. A
	// block with a non-nil Err is reported and left untouched; other blocks
	// still run.
	Err error
}

// Empty reports whether the block contains no examples to execute.
func (b *ExampleBlock) Empty() bool {
	return len(b.Examples) == 0
}

// Document is the full text of one file plus the example blocks found in it.
type Document struct {
	// Path is the file the text was read from.
	Path string

	// Lines is the document split on "\n". Joining with "\n" reproduces the
	// original bytes; regions outside block bodies are never modified.
	Lines []string

	// Blocks are the tagged fenced regions in document order.
	Blocks []ExampleBlock
}

// Text reassembles the document from its lines.
func (d *Document) Text() string {
	return JoinLines(d.Lines)
}

// BlockError describes a tagged block whose body could not be unambiguously
// split into command/output pairs.
type BlockError struct {
	// Line is the 1-based line number of the offending source line.
	Line int

	// Reason describes the ambiguity.
	Reason string
}

// Error implements the error interface.
func (e *BlockError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}
