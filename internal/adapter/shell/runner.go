package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"zeckit-faucet/internal/core/ports"

	"github.com/rs/zerolog"
)

// Runner implements ports.CommandRunner with os/exec.
type Runner struct {
	log zerolog.Logger
}

// NewRunner creates a process runner.
func NewRunner(log zerolog.Logger) *Runner {
	return &Runner{log: log}
}

// Run executes name with args and captures its output. A non-zero exit is
// reported as an error alongside the captured result.
func (r *Runner) Run(ctx context.Context, name string, args ...string) (ports.CommandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.log.Debug().Str("cmd", name).Str("args", strings.Join(args, " ")).Msg("exec")

	err := cmd.Run()
	res := ports.CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return res, nil
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		return res, fmt.Errorf("%s exited with code %d: %w", name, res.ExitCode, err)
	default:
		res.ExitCode = -1
		return res, fmt.Errorf("running %s: %w", name, err)
	}
}
