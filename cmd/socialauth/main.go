package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/Jawadabbaskhan/socialauth/internal/cache"
	"github.com/Jawadabbaskhan/socialauth/internal/config"
	authctrl "github.com/Jawadabbaskhan/socialauth/internal/http/controllers/auth"
	healthctrl "github.com/Jawadabbaskhan/socialauth/internal/http/controllers/health"
	productsctrl "github.com/Jawadabbaskhan/socialauth/internal/http/controllers/products"
	usersctrl "github.com/Jawadabbaskhan/socialauth/internal/http/controllers/users"
	"github.com/Jawadabbaskhan/socialauth/internal/http/metrics"
	"github.com/Jawadabbaskhan/socialauth/internal/http/router"
	"github.com/Jawadabbaskhan/socialauth/internal/http/server"
	"github.com/Jawadabbaskhan/socialauth/internal/oauth/google"
	"github.com/Jawadabbaskhan/socialauth/internal/observability/logger"
	"github.com/Jawadabbaskhan/socialauth/internal/store/pg"
	"github.com/Jawadabbaskhan/socialauth/internal/token"
	migrations "github.com/Jawadabbaskhan/socialauth/migrations/postgres"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	// .env es opcional; las variables reales del entorno siempre ganan.
	_ = godotenv.Load()

	var configPath string
	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "ruta al YAML de configuración (opcional)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.App.LogLevel,
		ServiceName: "socialauth",
	})
	defer func() { _ = logger.Sync() }()
	log := logger.Named("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Persistencia + esquema embebido.
	store, err := pg.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer store.Close()
	if err := store.RunMigrations(ctx, migrations.FS); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	// Cache para el state de OAuth (memory o redis según config).
	stateCache, err := cache.New(cfg)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer func() { _ = stateCache.Close() }()

	// Núcleo de tokens.
	issuer := token.NewIssuer(cfg)
	verifier := token.NewVerifier(cfg)
	exchange := token.NewExchange(issuer, verifier)

	googleClient := google.New(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURI)

	metricsHandler, err := metrics.Register(nil)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	handler := router.New(router.Deps{
		Verifier: verifier,
		Users:    store,
		Auth:     authctrl.New(googleClient, stateCache, issuer, exchange, store),
		UsersC:   usersctrl.New(store),
		Products: productsctrl.New(store),
		Health: healthctrl.New(map[string]healthctrl.Pinger{
			"postgres": store,
			"cache":    stateCache,
		}),
		MetricsHandler: metricsHandler,
	})

	srv := server.New(cfg.Server.Addr, handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })

	log.Info("socialauth up", logger.Any("addr", cfg.Server.Addr), logger.Any("env", cfg.App.Env))
	return g.Wait()
}
