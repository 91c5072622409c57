package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"
)

const loggerName = "Escrow"

func main() {
	lggr, err := logger.New()
	if err != nil {
		panic(err)
	}
	lggr = logger.Named(lggr, loggerName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(newApp(lggr)).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
