package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/danharrold/lessons-api/pkg/config"
	"github.com/danharrold/lessons-api/pkg/server"
	"github.com/danharrold/lessons-api/pkg/store/mongostore"
)

func main() {
	settings := config.NewSettings()
	setupLogger(settings)

	store := mongostore.New(settings)

	// Connect in the background; every route reports the store as
	// unavailable until the first ping succeeds.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), settings.MongoConnectTimeout)
		defer cancel()
		if err := store.Connect(ctx); err != nil {
			log.Error().Err(err).Str("uri", settings.MongoURI()).Msg("mongodb connection failed")
			return
		}
		log.Info().Str("database", settings.MongoDatabase).Msg("connected to mongodb")
	}()

	srv := server.NewServer(settings, store)

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if err := store.Disconnect(ctx); err != nil {
		log.Error().Err(err).Msg("mongodb disconnect failed")
	}

	log.Info().Msg("server exited")
}
