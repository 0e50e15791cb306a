package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"zeckit-faucet/internal/core/ports"
	"zeckit-faucet/internal/service"

	"github.com/rs/zerolog"
)

// Wallet container layout used by the devnet compose file.
const (
	WalletContainer = "zeckit-zingo-wallet"
	WalletDataDir   = "/var/zingo"
)

// Host-side endpoints of a running devnet.
const (
	DefaultZebraRPC  = "http://127.0.0.1:8232"
	DefaultFaucetURL = "http://127.0.0.1:8080"
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// ErrUsage is returned for unknown subcommands and bad flags.
var ErrUsage = errors.New("usage")

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Deps holds everything the CLI talks to.
type Deps struct {
	Orchestrator ports.Orchestrator
	Chain        ports.ChainClient
	HTTP         HTTPClient
	Monitor      *service.ReadinessMonitor
	NewEngine    service.EngineFactory
	TokenSvc     ports.TokenService // nil = token subcommand unavailable
	Sleep        service.Sleeper
	FaucetURL    string
	Out          io.Writer
	Logger       zerolog.Logger
}

// App runs the zeckit subcommands.
type App struct {
	orch      ports.Orchestrator
	chain     ports.ChainClient
	http      HTTPClient
	monitor   *service.ReadinessMonitor
	newEngine service.EngineFactory
	tokenSvc  ports.TokenService
	sleep     service.Sleeper
	faucetURL string
	out       io.Writer
	log       zerolog.Logger
}

// New creates an App. Unset optional deps fall back to real-time sleeping,
// http.DefaultClient and the default faucet URL.
func New(d Deps) *App {
	a := &App{
		orch:      d.Orchestrator,
		chain:     d.Chain,
		http:      d.HTTP,
		monitor:   d.Monitor,
		newEngine: d.NewEngine,
		tokenSvc:  d.TokenSvc,
		sleep:     d.Sleep,
		faucetURL: strings.TrimRight(d.FaucetURL, "/"),
		out:       d.Out,
		log:       d.Logger,
	}
	if a.http == nil {
		a.http = http.DefaultClient
	}
	if a.sleep == nil {
		a.sleep = service.SleepContext
	}
	if a.faucetURL == "" {
		a.faucetURL = DefaultFaucetURL
	}
	if a.out == nil {
		a.out = io.Discard
	}
	return a
}

// Run dispatches args[0] to its subcommand.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return fmt.Errorf("%w: missing subcommand", ErrUsage)
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "up":
		return a.up(ctx, rest)
	case "down":
		return a.down(ctx, rest)
	case "status":
		return a.status(ctx, rest)
	case "test":
		return a.test(ctx, rest)
	case "token":
		return a.token(rest)
	case "help", "-h", "--help":
		a.usage()
		return nil
	}
	a.usage()
	return fmt.Errorf("%w: unknown subcommand %q", ErrUsage, cmd)
}

func (a *App) usage() {
	fmt.Fprintln(a.out, "ZecKit - Developer toolkit for Zcash on Zebra")
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Usage: zeckit <command> [flags]")
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Commands:")
	fmt.Fprintln(a.out, "  up       Start the devnet (--backend lwd|zaino|none, --fresh)")
	fmt.Fprintln(a.out, "  down     Stop the devnet (--purge removes volumes)")
	fmt.Fprintln(a.out, "  status   Show devnet status")
	fmt.Fprintln(a.out, "  test     Run smoke tests")
	fmt.Fprintln(a.out, "  token    Issue an admin token for the faucet (--subject)")
}

func (a *App) banner(title string) {
	fmt.Fprintln(a.out, rule)
	fmt.Fprintf(a.out, "  ZecKit - %s\n", title)
	fmt.Fprintln(a.out, rule)
	fmt.Fprintln(a.out)
}
