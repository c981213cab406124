package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/OwenK944/discompress/internal/infrastructure/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger.Error.Printf("%v", err)
		stop()
		os.Exit(1)
	}
}
