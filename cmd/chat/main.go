package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/chat-client/internal/client/pgnotify"
	"github.com/s21platform/chat-client/internal/config"
	"github.com/s21platform/chat-client/internal/conversation"
	"github.com/s21platform/chat-client/internal/model"
	"github.com/s21platform/chat-client/internal/pkg/validator"
	db "github.com/s21platform/chat-client/internal/repository/postgres"
	"github.com/s21platform/chat-client/internal/tui"
)

func main() {
	cfg := config.MustLoad()
	if cfg.Chat.UserID == "" {
		log.Fatal("CHAT_USER_ID is required")
	}

	policy, err := conversation.ParseAckPolicy(cfg.Chat.AckPolicy)
	if err != nil {
		log.Fatalf("invalid CHAT_ACK_POLICY: %v", err)
	}

	logger := logger_lib.New(cfg.Logger.Host, cfg.Logger.Port, cfg.Service.Name, cfg.Platform.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbRepo := db.New(cfg)
	defer dbRepo.Close()

	notifyClient := pgnotify.New(cfg, logger)
	defer notifyClient.Close()

	notifier := tui.NewNotifier()
	identity := model.Identity{ID: cfg.Chat.UserID, Email: cfg.Chat.UserEmail}

	session := conversation.NewSession(identity, conversation.Deps{
		Durable:   dbRepo,
		Push:      notifyClient,
		Validator: validator.New(),
		Notifier:  notifier,
		Logger:    logger,
	}, conversation.Options{
		AckPolicy:        policy,
		ResubscribeDelay: cfg.Chat.ResubscribeDelay,
	})
	defer session.Close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return notifyClient.Run(gctx)
	})

	g.Go(func() error {
		defer stop()

		view := tui.New(gctx, identity, session, dbRepo, notifier.C(), tui.Options{PeerLimit: cfg.Chat.PeerSearchLimit})
		program := tea.NewProgram(view, tea.WithAltScreen(), tea.WithContext(gctx))

		if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("terminal view error: %v", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("chat error: %v", err))
	}
}
