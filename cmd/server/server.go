package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"zync-server/backroom-api/internal/config"
	"zync-server/backroom-api/internal/domain/agent"
	"zync-server/backroom-api/internal/domain/backroom"
	"zync-server/backroom-api/internal/domain/token"
	"zync-server/backroom-api/internal/infrastructure/inference"
	"zync-server/backroom-api/internal/infrastructure/logger"
	"zync-server/backroom-api/internal/infrastructure/observability"
	"zync-server/backroom-api/internal/infrastructure/repository"
	"zync-server/backroom-api/internal/infrastructure/storage"
	"zync-server/backroom-api/internal/interfaces/httpserver"
	"zync-server/backroom-api/internal/interfaces/httpserver/handlers"
	"zync-server/backroom-api/internal/utils/httpclients"
)

// @title Backroom API
// @version 1.0
// @description Drives bounded multi-agent conversations over an object store, with completion analytics and token launch coordination.
// @BasePath /
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	store, err := storage.NewS3Store(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize object store")
	}

	agentRepository := repository.NewAgentRepository(store)
	backroomRepository := repository.NewBackroomRepository(store)
	tokenRepository := repository.NewTokenRepository(store)

	turnProvider := inference.NewClient(
		httpclients.NewClient("turn-provider"),
		"turn-provider", cfg.TurnProviderURL, cfg.TurnProviderKey, cfg.TurnTimeout)
	tokenProvider := inference.NewClient(
		httpclients.NewClient("token-provider"),
		"token-provider", cfg.TokenProviderURL, cfg.TokenProviderKey, cfg.TokenTimeout)

	agentService := agent.NewService(agentRepository)
	backroomService := backroom.NewService(backroomRepository, agentRepository, log)
	turnService := backroom.NewTurnService(backroomRepository, agentRepository, turnProvider, backroom.TurnConfig{
		Model:          cfg.TurnModel,
		Temperature:    cfg.TurnTemperature,
		TopP:           0.7,
		MaxTokens:      cfg.TurnMaxTokens,
		FinalMaxTokens: cfg.FinalTurnMaxTokens,
	}, log)
	tokenService := token.NewService(tokenRepository, backroomRepository, agentRepository, tokenProvider, token.LaunchConfig{
		Model:       cfg.TokenModel,
		Temperature: 0.7,
		SiteBaseURL: cfg.SiteBaseURL,
	}, log)

	handlerProvider := handlers.NewProvider(backroomService, turnService, tokenService, agentService, log)
	httpServer := httpserver.New(cfg, log, handlerProvider, store.Health)
	app := NewApplication(httpServer, log)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return app.Start(groupCtx)
	})
	group.Go(func() error {
		return runMetricsServer(groupCtx, cfg, log)
	})

	if err := group.Wait(); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func runMetricsServer(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    cfg.MetricsAddr(),
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.MetricsAddr()).Msg("metrics server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
