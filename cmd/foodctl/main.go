package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"foodbridge-api/internal/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		logger.Must("dev").Error("❌ Command failed", zap.Error(err))
		os.Exit(1)
	}
}
