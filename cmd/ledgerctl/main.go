package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rogerio-castellano/inventory-ledger/internal/config"
	"github.com/rogerio-castellano/inventory-ledger/internal/logger"
	"github.com/rogerio-castellano/inventory-ledger/internal/service"
	"github.com/rogerio-castellano/inventory-ledger/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}
	if h := os.Args[1]; h == "help" || h == "-h" || h == "--help" {
		printUsage(os.Stdout)
		return
	}

	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("LEDGER_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init("ledgerctl", true)
	logger.SetLevel(cfg.Log.Level)
	log := logger.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx, log)

	st, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not open store")
	}
	defer st.Close()

	svc, err := service.New(ctx, st.State,
		service.WithLogger(log),
		service.WithLocation(cfg.Ledger.Location()),
		service.WithUndoCapacity(cfg.Undo.Capacity),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load ledger")
	}

	if err := run(ctx, svc, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUnknownCommand) {
			printUsage(os.Stderr)
		}
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Inventory Ledger CLI")
	fmt.Fprintln(w, "\nUsage:")
	fmt.Fprintln(w, "  ledgerctl <command> [options]")
	fmt.Fprintln(w, "\nCommands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-12s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w, "\nRun 'ledgerctl <command> -h' for more information on a command.")
}
