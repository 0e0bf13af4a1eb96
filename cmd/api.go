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

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/CameronXie/credential-registry/internal/api/rest"
	"github.com/CameronXie/credential-registry/internal/api/rest/handlers"
	"github.com/CameronXie/credential-registry/internal/api/rest/middlewares"
	"github.com/CameronXie/credential-registry/internal/authn"
	"github.com/CameronXie/credential-registry/internal/config"
	"github.com/CameronXie/credential-registry/internal/credstore"
	"github.com/CameronXie/credential-registry/internal/keyfetcher"
	"github.com/CameronXie/credential-registry/internal/version"
)

const (
	ReadTimeout     = 5 * time.Second
	WriteTimeout    = 10 * time.Second
	IdleTimeout     = 120 * time.Second
	ShutdownTimeout = 15 * time.Second

	PortNumber = 8080
)

func serve(ctx context.Context, flags *pflag.FlagSet, configFile string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("version", version.Version),
	)

	cfg, err := config.Load(flags, configFile)
	if err != nil {
		return err
	}

	hasher, err := credstore.NewHasher(cfg.Hasher, cfg.BcryptCost)
	if err != nil {
		return err
	}

	enforcer, err := newEnforcer(cfg, logger)
	if err != nil {
		return err
	}

	store, err := credstore.NewSeeded(credstore.New(credstore.WithHasher(hasher)), cfg.AdminAccounts)
	if err != nil {
		return err
	}

	mux := rest.NewMuxWithHandlers(
		&rest.RouterConfig{
			SignUpHandler: handlers.NewSignUpHandler(store, logger),
			SignInHandler: handlers.NewSignInHandler(
				authn.NewStoreAuthenticator(store, logger),
				keyfetcher.FromBase64Env(cfg.PrivateKeyEnv),
				cfg.TokenTTL,
				logger,
			),
			UserCountHandler:  handlers.NewUserCountHandler(store),
			ClearUsersHandler: handlers.NewClearUsersHandler(store, logger),
			AuthorisationMiddleware: middlewares.NewJWTAuthorizationMiddleware(
				enforcer,
				keyfetcher.FromBase64Env(cfg.PublicKeyEnv),
				store,
				logger,
			),
		},
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%v", cfg.Port),
		Handler:      mux,
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
	}

	return run(ctx, server, logger)
}

// run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then drains connections.
func run(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server exited: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
