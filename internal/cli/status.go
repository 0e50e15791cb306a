package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/sourcegraph/conc"
	"github.com/spf13/pflag"
)

func (a *App) status(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("status", pflag.ContinueOnError)
	fs.SetOutput(a.out)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	a.banner("Devnet Status")

	lines, err := a.orch.ListServiceStatus(ctx)
	if err != nil {
		return fmt.Errorf("listing services: %w", err)
	}
	for _, line := range lines {
		mark := "✗"
		if isUp(line) {
			mark = "✓"
		}
		fmt.Fprintf(a.out, "  %s %s\n", mark, line)
	}
	fmt.Fprintln(a.out)

	var zebraLine, faucetLine string
	var wg conc.WaitGroup
	wg.Go(func() { zebraLine = a.zebraStatus(ctx) })
	wg.Go(func() { faucetLine = a.faucetStatus(ctx) })
	wg.Wait()

	fmt.Fprintln(a.out, zebraLine)
	fmt.Fprintln(a.out, faucetLine)
	fmt.Fprintln(a.out)
	return nil
}

func (a *App) zebraStatus(ctx context.Context) string {
	height, err := a.chain.BlockCount(ctx)
	if err != nil {
		a.log.Debug().Err(err).Msg("zebra check failed")
		return "  ✗ Zebra - Not responding"
	}
	return fmt.Sprintf("  ✓ Zebra - Height: %d", height)
}

func (a *App) faucetStatus(ctx context.Context) string {
	code, body, err := a.get(ctx, a.faucetURL+"/stats")
	if err != nil || !isSuccess(code) {
		return "  ✗ Faucet - Not responding"
	}
	if bal, ok := body["current_balance"]; ok {
		return fmt.Sprintf("  ✓ Faucet - Balance: %v ZEC", bal)
	}
	return "  ✓ Faucet - Running"
}

// isUp reports whether a compose status line shows a running container.
func isUp(line string) bool {
	return strings.Contains(line, "Up")
}
