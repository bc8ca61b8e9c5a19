// Command server starts the AI career coach HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ai "github.com/fairyhunter13/ai-career-coach/internal/adapter/ai"
	"github.com/fairyhunter13/ai-career-coach/internal/adapter/ai/gemini"
	"github.com/fairyhunter13/ai-career-coach/internal/adapter/ai/groq"
	httpserver "github.com/fairyhunter13/ai-career-coach/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-career-coach/internal/adapter/observability"
	"github.com/fairyhunter13/ai-career-coach/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/ai-career-coach/internal/app"
	"github.com/fairyhunter13/ai-career-coach/internal/config"
	"github.com/fairyhunter13/ai-career-coach/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()

	if !cfg.AuthEnabled() {
		slog.Warn("AUTH_JWT_SECRET is not set; every API request will be rejected")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DBURL, cfg.DBConnectMaxElapsed)
	if err != nil {
		slog.Error("db connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	profileRepo := postgres.NewProfileRepo(pool)
	insightRepo := postgres.NewInsightRepo(pool)

	// Generation chain: Gemini first, Groq on any failure.
	gen := ai.NewFallback(gemini.New(cfg), groq.New(cfg))

	insightSvc := usecase.NewInsightService(profileRepo, insightRepo, gen)
	profileSvc := usecase.NewProfileService(profileRepo, insightSvc)
	resumeSvc := usecase.NewResumeService(gen)
	letterSvc := usecase.NewCoverLetterService(gen)
	interviewSvc := usecase.NewInterviewService(profileRepo, gen)
	careerSvc := usecase.NewCareerPathService(gen)

	dbCheck := func(ctx context.Context) error { return pool.Ping(ctx) }
	srv := httpserver.NewServer(cfg, profileSvc, insightSvc, resumeSvc, letterSvc, interviewSvc, careerSvc, dbCheck)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
