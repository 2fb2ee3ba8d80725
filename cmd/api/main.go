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

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/supportinsights/hub/internal/api"
	"github.com/supportinsights/hub/internal/api/handler"
	"github.com/supportinsights/hub/internal/core/ports"
	"github.com/supportinsights/hub/internal/core/service"
	"github.com/supportinsights/hub/internal/infrastructure/db/mongo"
	"github.com/supportinsights/hub/internal/infrastructure/db/sqlite"
	"github.com/supportinsights/hub/internal/pkg/config"
	"github.com/supportinsights/hub/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loggerOptions never enables the console writer in production.
func loggerOptions(cfg *config.Config) logger.Options {
	return logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty && !cfg.IsProduction(),
		Service: "support-hub-api",
		Env:     cfg.Env,
	}
}

func run() error {
	var envFile string
	flagSet := pflag.NewFlagSet("support-hub-api", pflag.ContinueOnError)
	flagSet.StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	// A missing dotenv file is fine; variables may come from the environment.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(loggerOptions(cfg))

	tokens, err := service.NewTokenIssuer(service.TokenConfig{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		TTL:      cfg.JWT.TTL,
	})
	if err != nil {
		return fmt.Errorf("token issuer: %w", err)
	}

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	defer st.close()

	if cfg.Store.SeedDemo {
		if err := service.NewSeeder(st.users, st.tickets, log).Seed(ctx); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	e := api.NewRouter(api.Deps{
		Logger:           log,
		AuthService:      service.NewAuthService(st.users, tokens, log),
		Tokens:           tokens,
		TicketService:    service.NewTicketService(st.tickets, log),
		UserService:      service.NewUserService(st.users, log),
		DashboardService: service.NewDashboardService(st.tickets, st.users),
		ReadinessChecks:  map[string]handler.DependencyCheck{cfg.Store.Driver: st.ping},
		CORSOrigins:      cfg.AllowedOrigins(),
		LoginRate:        cfg.HTTP.LoginRate,
		LoginBurst:       cfg.HTTP.LoginBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("store", cfg.Store.Driver).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("stopped")
	return nil
}

type store struct {
	users   ports.UserRepository
	tickets ports.TicketRepository
	ping    handler.DependencyCheck
	close   func()
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		users := mongo.NewUserRepository(db)
		tickets := mongo.NewTicketRepository(db)
		if err := users.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		if err := tickets.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo store ready")
		return &store{
			users:   users,
			tickets: tickets,
			ping:    func(ctx context.Context) error { return mongo.Ping(ctx, client) },
			close: func() {
				ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := client.Disconnect(ctx); err != nil {
					log.Warn().Err(err).Msg("mongo disconnect failed")
				}
			},
		}, nil

	default:
		db, err := sqlite.Open(ctx, sqlite.Config{DSN: cfg.Store.SQLiteDSN})
		if err != nil {
			return nil, err
		}
		log.Info().Msg("sqlite store ready")
		return &store{
			users:   sqlite.NewUserRepository(db),
			tickets: sqlite.NewTicketRepository(db),
			ping:    func(ctx context.Context) error { return sqlite.Ping(ctx, db) },
			close: func() {
				if err := sqlite.Close(db); err != nil {
					log.Warn().Err(err).Msg("sqlite close failed")
				}
			},
		}, nil
	}
}
