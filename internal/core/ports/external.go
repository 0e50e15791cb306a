package ports

import (
	"context"

	"zeckit-faucet/internal/core/domain"
)

// WalletEngine is the wallet capability the faucet drives. Implementations
// parse engine output strictly and return typed results.
type WalletEngine interface {
	// Open opens the wallet, creating it when absent. created reports
	// whether a new wallet was made.
	Open(ctx context.Context) (created bool, err error)
	Sync(ctx context.Context) error
	Balance(ctx context.Context) (domain.Balance, error)
	UnifiedAddress(ctx context.Context) (string, error)
	Send(ctx context.Context, to string, zatoshis uint64, memo string) (*SendResult, error)
	Shield(ctx context.Context) (*SendResult, error)
	// Status returns the raw point-in-time status text used for sync polling.
	Status(ctx context.Context) (string, error)
}

// SendResult is the parsed outcome of a build-and-broadcast call.
type SendResult struct {
	TxID  string
	Error string
	// Diagnostic is the unparsed engine output, kept for classification.
	Diagnostic string
}

// AddressValidator confirms an address against the full node.
type AddressValidator interface {
	// Validate returns the canonical address or a typed error.
	Validate(ctx context.Context, address string) (string, error)
}

// CommandResult is the captured output of an external process.
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Combined returns stdout followed by stderr.
func (r CommandResult) Combined() string {
	if r.Stderr == "" {
		return r.Stdout
	}
	return r.Stdout + r.Stderr
}

// CommandRunner executes external processes. A non-zero exit is returned as
// an error together with the captured output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (CommandResult, error)
}

// Orchestrator controls the devnet containers.
type Orchestrator interface {
	// StartServices brings up the stack with the given backend profile.
	// fresh tears down volumes first.
	StartServices(ctx context.Context, profile string, fresh bool) error
	// StopServices stops the stack; purge also removes volumes.
	StopServices(ctx context.Context, purge bool) error
	ListServiceStatus(ctx context.Context) ([]string, error)
	IsServiceRunning(ctx context.Context, name string) (bool, error)
}

// ChainClient queries the full node.
type ChainClient interface {
	BlockCount(ctx context.Context) (int64, error)
}
