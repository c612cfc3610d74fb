// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ludoworld/ludo-service/internal/auth"
	"github.com/ludoworld/ludo-service/internal/config"
	"github.com/ludoworld/ludo-service/internal/database"
	"github.com/ludoworld/ludo-service/internal/game"
	"github.com/ludoworld/ludo-service/internal/handlers"
	"github.com/ludoworld/ludo-service/internal/history"
	"github.com/ludoworld/ludo-service/internal/matchmaker"
	"github.com/ludoworld/ludo-service/internal/middleware"
	"github.com/ludoworld/ludo-service/internal/wallet"
)

func main() {
	logger := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	auth.Init(cfg.SessionExpiry)
	handlers.GuestStartingWallet = cfg.GuestStartingWallet

	ctx := context.Background()
	if err := database.Connect(ctx, cfg.DatabaseURL()); err != nil {
		logger.Fatalf("database: %v", err)
	}
	defer database.Close()

	if err := history.Connect(cfg.RedisAddr, cfg.RedisDB); err != nil {
		logger.Fatalf("redis: %v", err)
	}
	journal := history.NewJournal(cfg.HistoryQueue, logger)

	mmCfg := matchmaker.Config{
		FillWait: cfg.FillWait,
		Room: game.Config{
			TurnTimeout:      cfg.TurnTimeout,
			StartDelay:       cfg.StartDelay,
			BotThinkDelay:    cfg.BotThinkDelay,
			CommissionRate:   cfg.CommissionRate,
			TwoSeatDuration:  cfg.TwoSeatDuration,
			FourSeatDuration: cfg.FourSeatDuration,
		},
	}

	registry := game.NewRegistry()
	ledger := wallet.NewLedger(logger)
	store := database.NewRoomStore()
	mm := matchmaker.New(mmCfg, registry, ledger, store, journal.Record, logger)
	mm.Stats = func(playerIDs []string) {
		ids := make([]uuid.UUID, 0, len(playerIDs))
		for _, p := range playerIDs {
			if id, err := uuid.Parse(p); err == nil {
				ids = append(ids, id)
			}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := database.IncrementGamesPlayed(ctx, ids); err != nil {
			logger.WithError(err).Warn("failed to bump games played")
		}
	}
	srv := handlers.NewServer(logger, mm, registry)

	mux := http.NewServeMux()
	logged := middleware.LogMiddleware(logger)

	mux.Handle("/players/guest", logged(handlers.CreateGuestHandler(logger)))
	mux.Handle("/players/recover", logged(handlers.RecoverPlayerHandler(logger)))
	mux.Handle("/players/me", logged(http.HandlerFunc(handlers.MeHandler)))
	mux.Handle("/players/profile", logged(http.HandlerFunc(handlers.UpdateProfileHandler)))

	mux.Handle("/ws", logged(srv.WSHandler()))

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: mux,
	}

	go func() {
		logger.Infof("running on %s", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server exited: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("shutdown: %v", err)
	}
}
