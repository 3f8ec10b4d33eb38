package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/registrovecinal/api/internal/auditoria"
	"github.com/registrovecinal/api/internal/auth"
	"github.com/registrovecinal/api/internal/bruteforce"
	"github.com/registrovecinal/api/internal/config"
	"github.com/registrovecinal/api/internal/db"
	internalhttp "github.com/registrovecinal/api/internal/http"
	"github.com/registrovecinal/api/internal/persona"
	"github.com/registrovecinal/api/internal/service"
	"github.com/registrovecinal/api/internal/usuario"
	"github.com/registrovecinal/api/internal/villa"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("api terminó con error")
	}
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer pool.Close()

	// Sin REDIS_URL el contador de intentos vive en memoria del proceso.
	var store bruteforce.Store = bruteforce.NewMemoryStore()
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis parse: %w", err)
		}
		redisClient := redis.NewClient(redisOpts)
		defer redisClient.Close()
		store = bruteforce.NewRedisStore(redisClient)
	}
	guard := bruteforce.New(store)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTTL)

	bitacora := auditoria.NewService(auditoria.NewRepository(pool))
	usuarioRepo := usuario.NewRepository(pool)

	authService := service.NewAuthService(usuarioRepo, guard, jwtManager)
	personaService := persona.NewService(persona.NewRepository(pool), bitacora)
	villaService := villa.NewService(villa.NewRepository(pool), bitacora)
	usuarioService := usuario.NewService(usuarioRepo, bitacora)

	handler := internalhttp.NewRouter(internalhttp.RouterDeps{
		Config:   cfg,
		JWT:      jwtManager,
		Auth:     internalhttp.NewAuthHandler(authService),
		Personas: persona.NewHandler(personaService),
		Villas:   villa.NewHandler(villaService),
		Usuarios: usuario.NewHandler(usuarioService),
		Bitacora: auditoria.NewHandler(bitacora),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("API escuchando en :%d", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("apagando...")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
