package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bethwel3001/Eco-mission/internal/api"
	"github.com/bethwel3001/Eco-mission/internal/api/handler"
	"github.com/bethwel3001/Eco-mission/internal/infrastructure/catalog"
)

func serveCmd() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, seed)
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", true, "Insert missing catalog missions before serving")
	return cmd
}

func serve(ctx context.Context, seed bool) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if seed {
		missions, err := catalog.LoadFile(a.cfg.CatalogSeedFile)
		if err != nil {
			return wrap("load catalog", err)
		}
		if _, err := a.catalog.Seed(ctx, missions); err != nil {
			return wrap("seed catalog", err)
		}
	}

	// The dispatcher outlives ctx so requests still draining during shutdown
	// can finish their ledger writes.
	dispatchCtx, stopDispatcher := context.WithCancel(context.Background())
	defer stopDispatcher()
	a.dispatcher.Start(dispatchCtx)

	e := api.NewRouter(api.Deps{
		Auth:        a.auth,
		Catalog:     a.catalog,
		Ledger:      a.ledger,
		Analytics:   a.analytics,
		Leaderboard: a.leaderboard,
		Denylist:    a.denylist,
		JWTSecret:   a.cfg.JWTSecret,
		Version:     Version,
		Checks:      readinessChecks(a),
		Log:         a.log,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info().Str("port", a.cfg.Port).Str("env", a.cfg.Env).Msg("http server listening")
		if err := e.Start(":" + a.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if a.cfg.Decay.Enabled {
		g.Go(func() error {
			a.decayService().Run(gctx)
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.log.Info().Msg("shutting down http server")
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func readinessChecks(a *app) map[string]handler.Check {
	checks := map[string]handler.Check{
		"mongodb": func(ctx context.Context) error { return a.mongoClient.Ping(ctx, nil) },
		"redis":   func(ctx context.Context) error { return a.rdb.Ping(ctx).Err() },
	}
	if a.nats != nil {
		checks["nats"] = func(context.Context) error { return a.nats.Status() }
	}
	return checks
}
