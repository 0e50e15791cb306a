package docker

import (
	"context"
	"fmt"
	"strings"

	"zeckit-faucet/internal/core/ports"

	"github.com/rs/zerolog"
)

// Compose implements ports.Orchestrator on top of the docker compose CLI.
type Compose struct {
	file   string
	runner ports.CommandRunner
	log    zerolog.Logger
}

// NewCompose creates an orchestrator. An empty file uses compose's default
// lookup in the working directory.
func NewCompose(file string, runner ports.CommandRunner, log zerolog.Logger) *Compose {
	return &Compose{file: file, runner: runner, log: log}
}

func (c *Compose) compose(ctx context.Context, args ...string) (ports.CommandResult, error) {
	full := []string{"compose"}
	if c.file != "" {
		full = append(full, "-f", c.file)
	}
	return c.runner.Run(ctx, "docker", append(full, args...)...)
}

// StartServices starts the stack. profile selects the light-client backend
// ("" or "none" starts zebra and the faucet only).
func (c *Compose) StartServices(ctx context.Context, profile string, fresh bool) error {
	if fresh {
		c.log.Info().Msg("fresh start: removing existing containers and volumes")
		if res, err := c.compose(ctx, "down", "-v"); err != nil {
			return fmt.Errorf("compose down -v: %w: %s", err, strings.TrimSpace(res.Stderr))
		}
	}

	args := []string{}
	if profile != "" && profile != "none" {
		args = append(args, "--profile", profile)
	}
	args = append(args, "up", "-d")

	c.log.Info().Str("profile", profile).Bool("fresh", fresh).Msg("starting services")
	if res, err := c.compose(ctx, args...); err != nil {
		return fmt.Errorf("compose up: %w: %s", err, strings.TrimSpace(res.Stderr))
	}
	return nil
}

// StopServices stops the stack; purge removes volumes too.
func (c *Compose) StopServices(ctx context.Context, purge bool) error {
	args := []string{"down"}
	if purge {
		args = append(args, "-v")
	}
	c.log.Info().Bool("purge", purge).Msg("stopping services")
	if res, err := c.compose(ctx, args...); err != nil {
		return fmt.Errorf("compose down: %w: %s", err, strings.TrimSpace(res.Stderr))
	}
	return nil
}

// ListServiceStatus returns one "name status" line per container.
func (c *Compose) ListServiceStatus(ctx context.Context) ([]string, error) {
	res, err := c.compose(ctx, "ps", "--all", "--format", "{{.Name}}\t{{.Status}}")
	if err != nil {
		return nil, fmt.Errorf("compose ps: %w", err)
	}
	return nonEmptyLines(res.Stdout), nil
}

// IsServiceRunning reports whether a running container matches name.
func (c *Compose) IsServiceRunning(ctx context.Context, name string) (bool, error) {
	res, err := c.runner.Run(ctx, "docker", "ps", "--filter", "name="+name, "--format", "{{.Names}}")
	if err != nil {
		return false, fmt.Errorf("docker ps: %w", err)
	}
	for _, line := range nonEmptyLines(res.Stdout) {
		if strings.Contains(line, name) {
			return true, nil
		}
	}
	return false, nil
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
