// Package parser extracts tagged example blocks from documentation files.
//
// A block is a fenced code region labeled with the readme-commands tag:
//
//	```readme-commands
//	$ echo hello
//	hello
//	```
//
// Inside a tagged block, lines beginning with "$ " are shell commands, lines
// beginning with ">>> " are interactive expressions (with "... " continuation
// lines), and everything that follows a command up to the next marker is that
// command's recorded output. Untagged fenced code and all text outside tagged
// blocks is never inspected.
package parser

import (
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/readmeright/readme-right/internal/models"
)

// BlockTag is the fence info string that marks a block as executable.
const BlockTag = "readme-commands"

const (
	exprPrefix  = ">>> "
	contPrefix  = "... "
	shellPrefix = "$ "
)

// Extractor locates tagged fenced regions and splits them into
// command/output pairs.
type Extractor struct {
	markdown goldmark.Markdown
}

// NewExtractor creates an extractor backed by a goldmark parser.
func NewExtractor() *Extractor {
	return &Extractor{
		markdown: goldmark.New(),
	}
}

// Extract scans content and returns the document with its example blocks in
// source order. Structural problems inside a block are recorded on that
// block's Err field; they never abort extraction of other blocks.
func (e *Extractor) Extract(path string, content []byte) *models.Document {
	doc := &models.Document{
		Path:  path,
		Lines: models.SplitLines(string(content)),
	}

	// The goldmark AST locates tagged fences reliably even when untagged
	// code blocks contain fence-looking text. Extraction of the body is done
	// line by line against the original source so rewrites stay
	// byte-faithful.
	starts := lineStarts(content)
	root := e.markdown.Parser().Parse(text.NewReader(content))

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		fenced, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if string(fenced.Language(content)) != BlockTag {
			return ast.WalkContinue, nil
		}
		if fenced.Info == nil {
			return ast.WalkContinue, nil
		}

		fenceLine := lineIndex(starts, fenced.Info.Segment.Start)
		block := e.extractBlock(doc.Lines, fenceLine)
		doc.Blocks = append(doc.Blocks, block)
		return ast.WalkContinue, nil
	})

	return doc
}

// extractBlock builds one ExampleBlock given the 0-based index of its
// opening fence line.
func (e *Extractor) extractBlock(lines []string, fenceLine int) models.ExampleBlock {
	block := models.ExampleBlock{
		FenceLine: fenceLine,
		BodyStart: fenceLine + 1,
	}

	block.BodyEnd = findClosingFence(lines, fenceLine)
	body := lines[block.BodyStart:block.BodyEnd]
	block.Leading, block.Examples, block.Err = splitBody(body, block.BodyStart)
	return block
}

// splitBody splits block body lines into leading commentary and an ordered
// list of examples. bodyStart is the 0-based document index of the first
// body line, used to compute 1-based line numbers.
func splitBody(body []string, bodyStart int) ([]string, []models.Example, error) {
	var leading []string
	var examples []models.Example
	var cur *models.Example

	flush := func() {
		if cur != nil {
			examples = append(examples, *cur)
			cur = nil
		}
	}

	for i, line := range body {
		switch {
		case strings.HasPrefix(line, exprPrefix):
			flush()
			cur = &models.Example{
				Style:        models.StyleExpression,
				Command:      strings.TrimSpace(line[len(exprPrefix):]),
				CommandLines: []string{line},
				Line:         bodyStart + i + 1,
			}

		case strings.HasPrefix(line, contPrefix):
			// Continuation lines are only valid directly after an
			// interactive command, before any recorded output.
			if cur == nil || cur.Style != models.StyleExpression || len(cur.Output) > 0 {
				return leading, examples, &models.BlockError{
					Line:   bodyStart + i + 1,
					Reason: "continuation marker without an open interactive command",
				}
			}
			cur.Command += "\n" + strings.TrimSpace(line[len(contPrefix):])
			cur.CommandLines = append(cur.CommandLines, line)

		case strings.HasPrefix(line, shellPrefix):
			flush()
			cur = &models.Example{
				Style:        models.StyleShell,
				Command:      strings.TrimSpace(line[len(shellPrefix):]),
				CommandLines: []string{line},
				Line:         bodyStart + i + 1,
			}

		default:
			if cur == nil {
				// Text before the first command marker is commentary, kept
				// verbatim but never executed.
				leading = append(leading, line)
				continue
			}
			cur.Output = append(cur.Output, line)
		}
	}

	flush()
	return leading, examples, nil
}

// findClosingFence returns the 0-based index of the line closing the fence
// opened at fenceLine, or len(lines) when the document ends first.
func findClosingFence(lines []string, fenceLine int) int {
	open := strings.TrimSpace(lines[fenceLine])
	if open == "" {
		return len(lines)
	}
	fenceChar := open[0]
	openLen := 0
	for openLen < len(open) && open[openLen] == fenceChar {
		openLen++
	}

	for i := fenceLine + 1; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if len(trimmed) < openLen || trimmed != strings.Repeat(string(fenceChar), len(trimmed)) {
			continue
		}
		return i
	}
	return len(lines)
}

// lineStarts returns the byte offset at which each line begins.
func lineStarts(content []byte) []int {
	starts := []int{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineIndex maps a byte offset to its 0-based line index.
func lineIndex(starts []int, offset int) int {
	return sort.Search(len(starts), func(i int) bool { return starts[i] > offset }) - 1
}
