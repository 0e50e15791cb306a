package zingo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"zeckit-faucet/internal/core/domain"
	"zeckit-faucet/internal/core/ports"

	"github.com/rs/zerolog"
)

// WalletFileName is the wallet file zingo-cli keeps in its data directory.
const WalletFileName = "zingo-wallet.dat"

// Options configures how zingo-cli is invoked.
type Options struct {
	CLIPath string
	DataDir string
	Server  string
	Chain   string
	// Container, when set, runs every command through docker exec.
	Container string
}

// Engine implements ports.WalletEngine by driving zingo-cli.
type Engine struct {
	opts   Options
	runner ports.CommandRunner
	log    zerolog.Logger
}

// NewEngine creates a zingo-cli backed wallet engine.
func NewEngine(opts Options, runner ports.CommandRunner, log zerolog.Logger) *Engine {
	if opts.CLIPath == "" {
		opts.CLIPath = "zingo-cli"
	}
	if opts.Chain == "" {
		opts.Chain = "regtest"
	}
	return &Engine{opts: opts, runner: runner, log: log}
}

func (e *Engine) baseArgs(nosync bool) []string {
	args := []string{"--data-dir", e.opts.DataDir, "--server", e.opts.Server, "--chain", e.opts.Chain}
	if nosync {
		args = append(args, "--nosync")
	}
	return args
}

// exec runs a single zingo-cli command.
func (e *Engine) exec(ctx context.Context, nosync bool, command string, extra ...string) (ports.CommandResult, error) {
	args := append(e.baseArgs(nosync), command)
	args = append(args, extra...)

	if e.opts.Container != "" {
		return e.runner.Run(ctx, "docker", append([]string{"exec", e.opts.Container, e.opts.CLIPath}, args...)...)
	}
	return e.runner.Run(ctx, e.opts.CLIPath, args...)
}

// script feeds commands to an interactive zingo-cli session, for commands
// that ask for confirmation.
func (e *Engine) script(ctx context.Context, commands ...string) (ports.CommandResult, error) {
	quoted := make([]string, 0, len(e.baseArgs(false))+1)
	quoted = append(quoted, shellQuote(e.opts.CLIPath))
	for _, a := range e.baseArgs(false) {
		quoted = append(quoted, shellQuote(a))
	}
	input := strings.Join(append(commands, "quit"), `\n`)
	line := fmt.Sprintf(`printf '%s\n' | %s 2>&1`, input, strings.Join(quoted, " "))

	if e.opts.Container != "" {
		return e.runner.Run(ctx, "docker", "exec", "-i", e.opts.Container, "bash", "-c", line)
	}
	return e.runner.Run(ctx, "bash", "-c", line)
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Open makes sure the wallet exists, creating it on first use.
func (e *Engine) Open(ctx context.Context) (bool, error) {
	created := false
	if e.opts.Container == "" {
		if err := os.MkdirAll(e.opts.DataDir, 0o755); err != nil {
			return false, fmt.Errorf("creating wallet data dir: %w", err)
		}
		_, err := os.Stat(filepath.Join(e.opts.DataDir, WalletFileName))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			created = true
		case err != nil:
			return false, fmt.Errorf("checking wallet file: %w", err)
		}
	}

	if created {
		e.log.Info().Str("data_dir", e.opts.DataDir).Msg("creating new wallet")
	} else {
		e.log.Info().Str("data_dir", e.opts.DataDir).Msg("loading existing wallet")
	}

	// zingo-cli creates the wallet on first invocation.
	if _, err := e.exec(ctx, true, "addresses"); err != nil {
		return false, fmt.Errorf("opening wallet: %w", err)
	}
	return created, nil
}

// Sync runs a full sync with the backend.
func (e *Engine) Sync(ctx context.Context) error {
	res, err := e.exec(ctx, false, "sync")
	if err != nil {
		return fmt.Errorf("zingo sync: %w: %s", err, strings.TrimSpace(res.Stderr))
	}
	if r := ParseSendResult(res.Stdout); r.Error != "" {
		return fmt.Errorf("zingo sync: %s", r.Error)
	}
	return nil
}

// Balance returns the per-pool balance.
func (e *Engine) Balance(ctx context.Context) (domain.Balance, error) {
	res, err := e.exec(ctx, true, "balance")
	if err != nil {
		return domain.Balance{}, fmt.Errorf("zingo balance: %w", err)
	}
	return ParseBalance(res.Stdout)
}

// UnifiedAddress returns the wallet's unified address.
func (e *Engine) UnifiedAddress(ctx context.Context) (string, error) {
	res, err := e.exec(ctx, true, "addresses")
	if err != nil {
		return "", fmt.Errorf("zingo addresses: %w", err)
	}
	return ParseAddresses(res.Stdout)
}

// Send builds and broadcasts a single-output transaction.
func (e *Engine) Send(ctx context.Context, to string, zatoshis uint64, memo string) (*ports.SendResult, error) {
	args := []string{to, strconv.FormatUint(zatoshis, 10)}
	if memo != "" {
		args = append(args, memo)
	}
	res, err := e.exec(ctx, true, "send", args...)
	if err != nil {
		return nil, fmt.Errorf("zingo send: %w: %s", err, strings.TrimSpace(res.Combined()))
	}
	return ParseSendResult(res.Stdout), nil
}

// Shield moves transparent funds into the orchard pool.
func (e *Engine) Shield(ctx context.Context) (*ports.SendResult, error) {
	res, err := e.script(ctx, "shield", "confirm")
	if err != nil && res.Stdout == "" {
		return nil, fmt.Errorf("zingo shield: %w", err)
	}
	return ParseSendResult(res.Combined()), nil
}

// Status returns the raw balance report without syncing.
func (e *Engine) Status(ctx context.Context) (string, error) {
	res, err := e.exec(ctx, true, "balance")
	out := res.Combined()
	if err != nil && out == "" {
		return "", fmt.Errorf("zingo status: %w", err)
	}
	return out, nil
}
