package runner

import (
	"bytes"
	"context"
	"fmt"
	goparser "go/parser"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/readmeright/readme-right/internal/models"
)

// ExprSession evaluates interactive examples in a persistent interpreter.
//
// One session is created when an example block is entered and discarded when
// it ends, so variables and imports bound by earlier examples remain visible
// to later ones in the same block and state never leaks across blocks or
// files. The interpreter has the Go standard library available.
type ExprSession struct {
	interp *interp.Interpreter
	stdout bytes.Buffer
	stderr bytes.Buffer
}

// NewExprSession creates a fresh evaluation context.
func NewExprSession() (*ExprSession, error) {
	s := &ExprSession{}
	s.interp = interp.New(interp.Options{
		Stdout: &s.stdout,
		Stderr: &s.stderr,
	})
	if err := s.interp.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("failed to load stdlib symbols: %w", err)
	}
	return s, nil
}

// Run evaluates the example's command text. An expression's value becomes
// the captured output, printed with %v; statements produce only whatever
// they write to stdout. Evaluation errors become the captured output text
// and flag the result as failed.
func (s *ExprSession) Run(ctx context.Context, ex models.Example) (result models.ExecutionResult) {
	s.stdout.Reset()
	s.stderr.Reset()

	// Interpreter panics on pathological input are failures of the example,
	// not of the tool.
	defer func() {
		if r := recover(); r != nil {
			result = models.ExecutionResult{
				Stdout: fmt.Sprintf("*** panic: %v", r),
				Failed: true,
			}
		}
	}()

	// ParseExpr decides whether the command is a single expression (whose
	// value is the output, like an interpreter prompt) or a statement
	// (evaluated for effect only, so `x := 5` prints nothing).
	_, parseErr := goparser.ParseExpr(ex.Command)
	isExpr := parseErr == nil

	v, err := s.interp.EvalWithContext(ctx, ex.Command)

	printed := strings.TrimSuffix(s.stdout.String(), "\n")
	result = models.ExecutionResult{
		Stdout: printed,
		Stderr: strings.TrimSuffix(s.stderr.String(), "\n"),
	}

	if err != nil {
		result.Failed = true
		result.Stdout = "*** " + err.Error()
		return result
	}

	// Printed output wins over the expression's value, so `fmt.Println("hi")`
	// documents "hi" rather than Println's return values.
	if printed == "" && isExpr && v.IsValid() {
		result.Stdout = fmt.Sprintf("%v", v)
	}
	return result
}
