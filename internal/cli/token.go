package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

func (a *App) token(args []string) error {
	fs := pflag.NewFlagSet("token", pflag.ContinueOnError)
	fs.SetOutput(a.out)
	subject := fs.StringP("subject", "s", "operator", "token subject")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if a.tokenSvc == nil {
		return errors.New("admin token signing is disabled: set ZECKIT_ADMIN_JWT_SECRET")
	}

	tok, exp, err := a.tokenSvc.Generate(*subject)
	if err != nil {
		return fmt.Errorf("generating token: %w", err)
	}
	fmt.Fprintln(a.out, tok)
	fmt.Fprintf(a.out, "# expires %s\n", exp.UTC().Format(time.RFC3339))
	return nil
}
