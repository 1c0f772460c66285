package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	logger_lib "github.com/s21platform/logger-lib"
	"github.com/s21platform/metrics-lib/pkg"

	"github.com/s21platform/chat-client/internal/client/centrifugo"
	"github.com/s21platform/chat-client/internal/client/pgnotify"
	"github.com/s21platform/chat-client/internal/config"
	"github.com/s21platform/chat-client/internal/infra"
	"github.com/s21platform/chat-client/internal/pkg/jwt"
	"github.com/s21platform/chat-client/internal/pkg/validator"
	"github.com/s21platform/chat-client/internal/relay"
	db "github.com/s21platform/chat-client/internal/repository/postgres"
	"github.com/s21platform/chat-client/internal/rest"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.MustLoad()
	logger := logger_lib.New(cfg.Logger.Host, cfg.Logger.Port, cfg.Service.Name, cfg.Platform.Env)

	var relayMetrics relay.Metrics
	metrics, err := pkg.NewMetrics(cfg.Metrics.Host, cfg.Metrics.Port, cfg.Service.Name, cfg.Platform.Env)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to connect graphite: %v", err))
	} else {
		relayMetrics = metrics
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = context.WithValue(ctx, config.KeyLogger, logger)

	dbRepo := db.New(cfg)
	defer dbRepo.Close()

	notifyClient := pgnotify.New(cfg, logger)
	defer notifyClient.Close()

	centrifugeClient := centrifugo.New(cfg)
	defer centrifugeClient.Close()

	chatRelay := relay.New(notifyClient, centrifugeClient, relayMetrics, logger, cfg.Chat.ResubscribeDelay)

	handler := rest.New(dbRepo, validator.New(), jwt.New(cfg.Centrifuge.JWTSecret), cfg.Chat.PeerSearchLimit)
	router := chi.NewRouter()

	router.Use(func(next http.Handler) http.Handler {
		return infra.AuthInterceptorHTTP(next)
	})
	router.Use(func(next http.Handler) http.Handler {
		return infra.LoggerHTTP(next, logger)
	})

	handler.Routes(router)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Service.Port),
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return notifyClient.Run(gctx)
	})

	g.Go(func() error {
		return chatRelay.Run(gctx)
	})

	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %v", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("server error: %v", err))
	}
}
