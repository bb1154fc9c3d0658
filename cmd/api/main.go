package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/http/handlers"
	httpapi "server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/providers/agent"
	"server/internal/providers/googlecal"
	"server/internal/store"
)

func main() {
	// Load .env when present.
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	// In-memory entity store, seeded with the demo user. Everything is
	// gone on restart.
	entityStore := store.New()
	entityStore.Seed()

	agentClient, err := agent.NewClient(agent.Options{
		BaseURL: cfg.AgentBaseURL,
		APIKey:  cfg.AgentAPIKey,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure agent client")
	}

	calendarClient := googlecal.NewClient(googlecal.Options{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURI,
		Logger:       &logger,
	})
	if !calendarClient.HasCredentials() {
		logger.Warn().Msg("google oauth credentials not set; calendar endpoints will report errors")
	}

	app := handlers.NewApp(entityStore, agentClient, calendarClient, logger)
	router := httpapi.NewRouter(app, cfg, logger)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
