package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"qisim/adapters/api"
	"qisim/adapters/rng"
	"qisim/internal"
	"qisim/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		internal.DefaultLogger.Debug("no .env file loaded: %v", err)
	}

	appConfig, err := config.Load()
	if err != nil {
		internal.DefaultLogger.Error("failed to load configuration: %v", err)
		os.Exit(1)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))
	logger.Info("starting qisim (gin mode %s, max participants %d)", appConfig.Server.GinMode, appConfig.Simulation.MaxParticipants)

	service := api.NewService(appConfig, rng.NewProvider(), logger)
	server := api.NewServer(appConfig, service, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		logger.Error("server stopped: %v", err)
		os.Exit(1)
	}
}
