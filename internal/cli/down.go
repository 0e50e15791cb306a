package cli

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"
)

func (a *App) down(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("down", pflag.ContinueOnError)
	fs.SetOutput(a.out)
	purge := fs.BoolP("purge", "p", false, "remove volumes (clean slate)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	a.banner("Stopping Devnet")
	fmt.Fprintln(a.out, "Stopping services...")
	if err := a.orch.StopServices(ctx, *purge); err != nil {
		return fmt.Errorf("stopping services: %w", err)
	}
	if *purge {
		fmt.Fprintln(a.out, "✓ Volumes removed (fresh start on next up)")
	}
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "✓ Devnet stopped successfully")
	fmt.Fprintln(a.out)
	return nil
}
