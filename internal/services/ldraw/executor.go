package ldraw

import (
	"bytes"
	"context"
	"os/exec"
)

// Executor abstracts command execution for testability.
type Executor interface {
	// Run executes the binary and returns captured stdout and stderr. Stdout
	// is returned as raw bytes so the STL payload survives byte-for-byte
	// regardless of platform line-ending conventions.
	Run(ctx context.Context, binary string, args []string) (stdout []byte, stderr []byte, err error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		// CommandContext killed the child; the context error is authoritative.
		return stdout.Bytes(), stderr.Bytes(), ctxErr
	}
	return stdout.Bytes(), stderr.Bytes(), err
}
