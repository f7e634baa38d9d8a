// Package runner executes examples and captures their output as data.
//
// A runner never fails because the command it ran failed: non-zero exits and
// evaluation errors are recorded on the ExecutionResult and reconciled like
// any other output. The only things a runner cannot survive are programming
// errors in the tool itself.
package runner

import (
	"context"

	"github.com/readmeright/readme-right/internal/models"
)

// Runner executes a single example.
type Runner interface {
	Run(ctx context.Context, ex models.Example) models.ExecutionResult
}
