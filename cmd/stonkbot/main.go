package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bobmcallan/stonkbot/internal/app"
	"github.com/bobmcallan/stonkbot/internal/common"
)

func main() {
	configPath := os.Getenv("STONKBOT_CONFIG")

	a, err := app.NewApp(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize bot: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.Start(ctx); err != nil {
		a.Logger.Error().Err(err).Msg("Startup failed")
		a.Close()
		os.Exit(1)
	}

	go a.Dispatcher.Run(ctx)

	a.Logger.Info().
		Str("bot", a.API.Self.UserName).
		Str("version", common.GetFullVersion()).
		Msg("Bot ready")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	a.Logger.Info().Msg("Shutdown signal received")

	cancel()
	a.Close()
	a.Logger.Info().Msg("Bot stopped")
}
