package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/pflag"
)

// Faucet readiness polling after "up". The faucet syncs its wallet before
// listening, so the bound is generous.
const (
	faucetReadyAttempts = 90
	faucetReadyInterval = 2 * time.Second
)

var backendProfiles = map[string]string{
	"lwd":   "lwd",
	"zaino": "zaino",
	"none":  "",
}

func (a *App) up(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("up", pflag.ContinueOnError)
	fs.SetOutput(a.out)
	backend := fs.StringP("backend", "b", "none", "light-client backend: lwd, zaino or none")
	fresh := fs.BoolP("fresh", "f", false, "remove volumes before starting")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	profile, ok := backendProfiles[*backend]
	if !ok {
		return fmt.Errorf("%w: invalid backend %q (want lwd, zaino or none)", ErrUsage, *backend)
	}

	a.banner("Starting Devnet")
	fmt.Fprintf(a.out, "Backend: %s\n", *backend)
	if *fresh {
		fmt.Fprintln(a.out, "Fresh start: existing volumes will be removed")
	}

	if err := a.orch.StartServices(ctx, profile, *fresh); err != nil {
		return fmt.Errorf("starting services: %w", err)
	}
	fmt.Fprintln(a.out, "✓ Services started")

	fmt.Fprintln(a.out, "Waiting for faucet to become healthy...")
	ready, err := a.waitForFaucet(ctx)
	if err != nil {
		return err
	}
	if ready {
		fmt.Fprintln(a.out, "✓ Devnet is ready")
	} else {
		fmt.Fprintln(a.out, "! Faucet not healthy yet, check `zeckit status`")
	}
	fmt.Fprintln(a.out)
	return nil
}

// waitForFaucet polls GET /health at a fixed interval. Running out of
// attempts is reported as not ready, not as an error.
func (a *App) waitForFaucet(ctx context.Context) (bool, error) {
	url := a.faucetURL + "/health"
	for attempt := 1; attempt <= faucetReadyAttempts; attempt++ {
		code, _, err := a.get(ctx, url)
		if err == nil && code == http.StatusOK {
			a.log.Debug().Int("attempts", attempt).Msg("faucet healthy")
			return true, nil
		}
		if attempt == faucetReadyAttempts {
			break
		}
		if err := a.sleep(ctx, faucetReadyInterval); err != nil {
			return false, err
		}
	}
	a.log.Warn().Int("attempts", faucetReadyAttempts).Msg("faucet readiness wait timed out")
	return false, nil
}
