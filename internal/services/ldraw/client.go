package ldraw

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"brickforge/internal/logging"
	"brickforge/internal/services"
)

// Client wraps the dat2stl conversion tool for one part at a time.
type Client struct {
	perlBinary string
	script     string
	libraryDir string
	timeout    time.Duration
	useCache   bool
	exec       Executor
	logger     *slog.Logger
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithLogger attaches a logger for per-part diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, "ldraw")
		}
	}
}

// New constructs a converter client.
func New(perlBinary, script, libraryDir string, timeout time.Duration, useCache bool, opts ...Option) (*Client, error) {
	perlBinary = strings.TrimSpace(perlBinary)
	if perlBinary == "" {
		return nil, errors.New("perl binary required")
	}
	script = strings.TrimSpace(script)
	if script == "" {
		return nil, errors.New("converter script required")
	}
	libraryDir = strings.TrimSpace(libraryDir)
	if libraryDir == "" {
		return nil, errors.New("ldraw library directory required")
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client := &Client{
		perlBinary: perlBinary,
		script:     script,
		libraryDir: libraryDir,
		timeout:    timeout,
		useCache:   useCache,
		exec:       commandExecutor{},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SourcePath locates the raw geometry definition for a part, trying the exact
// part number and then a lowercase filename variant.
func (c *Client) SourcePath(partNum string) (string, bool) {
	exact := filepath.Join(c.libraryDir, "parts", partNum+".dat")
	if fileExists(exact) {
		return exact, true
	}
	lower := filepath.Join(c.libraryDir, "parts", strings.ToLower(partNum)+".dat")
	if fileExists(lower) {
		return lower, true
	}
	return "", false
}

// SourceExists reports whether the part has a source asset in the library.
func (c *Client) SourceExists(partNum string) bool {
	_, ok := c.SourcePath(partNum)
	return ok
}

// Convert renders one part to an STL file at destPath. The destination file
// only appears after a successful run: tool output is buffered, written to a
// temp file, and renamed into place, so a failed or interrupted conversion
// leaves nothing a skip-existing check could mistake for a finished artifact.
func (c *Client) Convert(ctx context.Context, partNum, destPath string) error {
	sourcePath, ok := c.SourcePath(partNum)
	if !ok {
		return services.Wrap(services.ErrNotFound, "ldraw", "convert", "source asset not found", nil)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return services.Wrap(services.ErrTransient, "ldraw", "convert", "create output directory", err)
	}

	args := []string{c.script, "--file", sourcePath, "--ldrawdir", c.libraryDir}
	if c.useCache {
		args = append(args, "--cache")
	}

	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	started := time.Now()
	stdout, stderr, err := c.exec.Run(runCtx, c.perlBinary, args)
	if err != nil {
		// A canceled caller (shutdown) is not a tool failure; surface the
		// context error so the orchestrator can stop the run.
		if errors.Is(ctx.Err(), context.Canceled) {
			return ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return services.Wrap(services.ErrTimeout, "ldraw", "convert",
				fmt.Sprintf("part %s exceeded %s", partNum, c.timeout), err)
		}
		detail := strings.TrimSpace(string(stderr))
		if detail == "" {
			detail = err.Error()
		}
		return services.Wrap(services.ErrExternalTool, "ldraw", "convert",
			fmt.Sprintf("part %s: %s", partNum, detail), err)
	}
	if len(stdout) == 0 {
		return services.Wrap(services.ErrExternalTool, "ldraw", "convert",
			fmt.Sprintf("part %s: converter produced no output", partNum), nil)
	}

	if err := writeAtomic(destPath, stdout); err != nil {
		return services.Wrap(services.ErrTransient, "ldraw", "convert", "write output", err)
	}

	attrs := []any{
		logging.String("part", partNum),
		logging.Int("bytes", len(stdout)),
		logging.Duration("elapsed", time.Since(started)),
	}
	if setNumber, ok := services.SetNumberFromContext(ctx); ok {
		attrs = append(attrs, logging.String("set", setNumber))
	}
	if jobID, ok := services.JobIDFromContext(ctx); ok {
		attrs = append(attrs, logging.String("job_id", jobID))
	}
	c.logger.Debug("converted part", attrs...)
	return nil
}

func writeAtomic(destPath string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(destPath), "."+filepath.Base(destPath)+".*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
