package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/mermadic/mermadic/api"
	"github.com/mermadic/mermadic/config"
	"github.com/mermadic/mermadic/render"
	"github.com/mermadic/mermadic/service"
	sessionredis "github.com/mermadic/mermadic/session/redis"
	"github.com/mermadic/mermadic/store/sqlite"
	"github.com/mermadic/mermadic/worker"
)

const (
	sweepInterval = time.Hour
	sweepMaxAge   = time.Hour
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	mermadicStore, err := sqlite.NewSQLiteStore(ctx, cfg.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open sqlite store")
	}
	defer mermadicStore.Close()

	if cfg.DevMode {
		mermadicStore.DumpSchema(ctx)
	}

	sessions, err := sessionredis.NewRedisSessionStore(ctx, cfg.DevMode, cfg.RedisEndpoint, cfg.SessionTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create redis session store")
	}

	renderer := render.NewMermaidCLI(cfg.MmdcPath, cfg.RenderTimeout)
	renderCache, err := render.NewCache(cfg.CacheDir, renderer)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create render cache")
	}

	var oauthConfig *oauth2.Config
	if cfg.GoogleConfigured() {
		oauthConfig = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleCallbackURL,
		}
	} else {
		logger.Warn().Msg("Google OAuth not configured; federated login disabled")
	}

	svc := service.NewService(
		mermadicStore,
		mermadicStore,
		sessions,
		renderCache,
		oauthConfig,
		[]byte(cfg.SessionSecret),
		cfg.RendersPerSec,
		cfg.RenderBurst,
	)

	shutdownCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	sweeper := worker.NewCacheSweeper(cfg.CacheDir, sweepInterval, sweepMaxAge)
	sweeper.Sweep()
	go sweeper.Run(shutdownCtx)

	mermadicAPI := api.NewMermadicAPI(svc, cfg.DevMode)

	mux := http.NewServeMux()
	mermadicAPI.RegisterRoutes(mux)

	logger.Info().Str("port", cfg.HostPort).Msg("Starting server")
	if err := http.ListenAndServe(":"+cfg.HostPort, mux); err != nil {
		logger.Fatal().Err(err).Msg("Server exited")
	}
}
