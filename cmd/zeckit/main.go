package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"zeckit-faucet/config"
	"zeckit-faucet/internal/adapter/docker"
	"zeckit-faucet/internal/adapter/shell"
	"zeckit-faucet/internal/adapter/zebra"
	"zeckit-faucet/internal/adapter/zingo"
	"zeckit-faucet/internal/cli"
	"zeckit-faucet/internal/core/ports"
	"zeckit-faucet/internal/service"
	"zeckit-faucet/pkg/logger"

	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Progress goes to stdout; only warnings (or debug on request) are logged.
	level := "warn"
	if cfg.Log.Level == "debug" {
		level = "debug"
	}
	log := logger.NewWithWriter(level, zerolog.ConsoleWriter{Out: os.Stderr})

	runner := shell.NewRunner(logger.Component(log, "shell"))
	orch := docker.NewCompose(os.Getenv("ZECKIT_COMPOSE_FILE"), runner, logger.Component(log, "docker"))

	zebraCfg := cfg.Zebra
	zebraCfg.RPCURL = cli.DefaultZebraRPC
	chain := zebra.NewClient(zebraCfg, nil, logger.Component(log, "zebra"))

	newEngine := func(backendURI string) ports.WalletEngine {
		return zingo.NewEngine(zingo.Options{
			CLIPath:   cfg.Wallet.CLIPath,
			DataDir:   cli.WalletDataDir,
			Server:    backendURI,
			Chain:     cfg.Wallet.Chain,
			Container: cli.WalletContainer,
		}, runner, logger.Component(log, "zingo"))
	}

	var tokenSvc ports.TokenService
	if cfg.Admin.JWTSecret != "" {
		tokenSvc = service.NewJWTTokenService(cfg.Admin.JWTSecret, cfg.Admin.TokenTTL, cfg.Admin.Issuer)
	}

	app := cli.New(cli.Deps{
		Orchestrator: orch,
		Chain:        chain,
		Monitor:      service.NewReadinessMonitor(orch, log),
		NewEngine:    newEngine,
		TokenSvc:     tokenSvc,
		Out:          os.Stdout,
		Logger:       log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
