// Abstractions for running the external retrieval, indexer and transcoder
// executables and capturing their output.

package process

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// IRunner runs a program with arguments and returns its stdout and stderr.
// An error is returned when the program cannot be started, exits non-zero,
// or the context deadline is hit.
type IRunner interface {
	Run(ctx context.Context, program string, args ...string) (stdout string, stderr string, err error)
}

type runner struct{}

func NewRunner() IRunner {
	return &runner{}
}

func (r *runner) Run(ctx context.Context, program string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, program, args...)

	var stdout strings.Builder
	var stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// Surface the context error so callers can tell a timeout apart
		// from a non-zero exit.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return stdout.String(), stderr.String(), fmt.Errorf("while running %s: %w", program, ctxErr)
		}
		return stdout.String(), stderr.String(), fmt.Errorf("while running %s: %w", program, err)
	}

	return stdout.String(), stderr.String(), nil
}
