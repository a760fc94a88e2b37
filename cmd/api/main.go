package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"remote-admin-svc/app"
	"remote-admin-svc/storage/postgres"

	"github.com/mattn/go-isatty"
)

func main() {
	logger := app.NewLogger(isatty.IsTerminal(os.Stderr.Fd()))

	application, err := app.Bootstrap(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to bootstrap application")
	}
	if store, ok := application.Storage.(*postgres.Store); ok {
		defer store.Close()
	}

	// Background queue sweeper
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go application.Sweeper.Run(sweepCtx)

	server := &http.Server{
		Addr:           ":" + application.Config.ServerPort,
		Handler:        application.Router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info().Str("port", application.Config.ServerPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-sigChan
	logger.Info().Msg("shutting down server")
	stopSweeper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
	}
}
