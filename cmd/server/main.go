package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/gujuliano18/webrtc/internal/adapters/http"
	wssignal "github.com/gujuliano18/webrtc/internal/adapters/signal"
	"github.com/gujuliano18/webrtc/internal/app"
	"github.com/gujuliano18/webrtc/internal/config"
	"github.com/gujuliano18/webrtc/internal/core"
	"github.com/gujuliano18/webrtc/internal/domain"
	"github.com/gujuliano18/webrtc/internal/storage"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}

	dir := core.NewDirectory()
	rooms := core.NewRegistry(cfg.MicSlots, cfg.ChatHistory, cfg.ChatTail)
	rooms.EnsureRoom(domain.RoomID(cfg.DefaultRoom), domain.RoomName(cfg.DefaultRoom))

	coord := app.NewCoordinator(dir, rooms, wssignal.JSONPublisher{})
	relay := app.NewRelay(dir)
	ctl := wssignal.NewSignalWSController(cfg, coord, relay)

	store, err := storage.NewDiskStore(cfg.UploadPath, cfg.MaxUploadBytes)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init blob store")
	}

	r := router.SetupRouter(ctx, cfg, ctl, rooms, store)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("relay server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
