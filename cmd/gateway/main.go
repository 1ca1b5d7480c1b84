package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"classhub/gateway/internal/backend"
	"classhub/gateway/internal/bootstrap"
	"classhub/gateway/internal/config"
	internalhttp "classhub/gateway/internal/http"
	"classhub/gateway/internal/mirror"
	"classhub/gateway/internal/session"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sessionMirror mirror.Mirror
	switch cfg.MirrorBackend {
	case "redis":
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatal().Err(err).Msg("redis ping failed")
		}
		cancel()
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Warn().Err(err).Msg("redis close error")
			}
		}()
		sessionMirror = mirror.NewRedis(redisClient, cfg.RedisKey)
	default:
		boltMirror, err := mirror.OpenBolt(cfg.MirrorPath)
		if err != nil {
			log.Fatal().Err(err).Msg("mirror open failed")
		}
		defer boltMirror.Close()
		sessionMirror = boltMirror
	}

	store := session.NewStore()
	client := backend.New(cfg.BackendBaseURL, cfg.BackendTimeout)

	updates, unsubscribe := store.Subscribe()
	defer unsubscribe()
	go func() {
		for snap := range updates {
			if snap.Session.Authenticated() {
				log.Debug().Str("role", string(snap.Session.Role)).Msg("session replaced")
			} else {
				log.Debug().Msg("session cleared")
			}
		}
	}()

	// Guards stay pending on every route until this resolves.
	go bootstrap.Run(ctx, log, store, sessionMirror, client)

	server := internalhttp.NewServer(cfg, log, store, sessionMirror, client)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("gateway listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("shutdown error")
	}
}
