package main

import (
	"context"
	"errors"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vncsmyrnk/gamenight/internal/adapters/handler/http"
	"github.com/vncsmyrnk/gamenight/internal/adapters/repository"
	"github.com/vncsmyrnk/gamenight/internal/config"
	"github.com/vncsmyrnk/gamenight/internal/core/domain"
	"github.com/vncsmyrnk/gamenight/internal/core/services"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	config.LoadDotEnv()
	cfg, err := config.Parse("server", os.Args[1:])
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	if err := cfg.RequireJWTSecret(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := repository.Open(ctx, cfg)
	if err != nil {
		slog.Error("database setup failed", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("database ready", "driver", cfg.DBDriver)

	clock := domain.SystemClock{}
	userService := services.NewUserService(store.Users)

	pollHandler := http.NewPollHandler(services.NewPollService(store.Polls, store.Votes, clock))
	voteHandler := http.NewVoteHandler(services.NewVoteService(store.Polls, store.Votes, clock))
	resultHandler := http.NewResultHandler(services.NewResultService(store.Polls, store.Votes, store.Results, clock))
	userHandler := http.NewUserHandler(userService)

	handler := http.NewHandler(
		pollHandler,
		voteHandler,
		resultHandler,
		userHandler,
		http.Authenticate([]byte(cfg.JWTSecret), userService),
		store.DB,
		cfg.AllowedOrigins,
	)
	server := &stdhttp.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}
