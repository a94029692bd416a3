package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	server "hotel_concierge/internal/adapters/http_server"
	mcpserver "hotel_concierge/internal/adapters/mcp_server"
	"hotel_concierge/internal/adapters/observability"
	redisad "hotel_concierge/internal/adapters/redis"
	"hotel_concierge/internal/app"
	"hotel_concierge/internal/domain"
	"hotel_concierge/internal/shared"
	"hotel_concierge/internal/storage"
)

func main() {
	// stdout belongs to the stdio transport, so logs always go to stderr
	log.Logger = observability.NewLogger(os.Getenv("APP_ENV"), os.Stderr)

	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	log.Logger = observability.NewLogger(cfg.AppEnv, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// store
	st, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open store failed")
	}
	defer st.Close()
	if err := storage.Init(ctx, st, cfg.SeedDemo, time.Now()); err != nil {
		log.Fatal().Err(err).Msg("initialize store failed")
	}

	// deps
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, continuing without cache")
			_ = rc.Close()
		} else {
			defer rc.Close()
			cache = rc
		}
	}
	q := app.NewQueryService(st, cache, cfg.CacheTTL())
	res := app.NewReservationService(st)
	srs := app.NewServiceRequestService(st)
	concierge := mcpserver.New(mcpserver.Services{Queries: q, Reservations: res, Requests: srs})
	reg := observability.InitRegistry()

	g, gctx := errgroup.WithContext(ctx)

	switch cfg.MCPTransport {
	case shared.TransportStdio:
		g.Go(func() error {
			log.Info().Msg("serving MCP over stdio")
			err := concierge.ServeStdio(gctx)
			// the client closing stdin ends the process
			stop()
			return err
		})
	case shared.TransportHTTP:
		srv := server.New(server.Options{RateRPS: cfg.RateLimitRPS, RateBurst: cfg.RateLimitBurst})
		srv.Mount("/metrics", observability.MetricsHandler(reg))
		srv.Mount("/mcp", concierge.HTTPHandler())
		srv.MountHandlers(&server.Handlers{Q: q, R: res, SR: srs})
		httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
		serveHTTP(g, gctx, httpSrv, "API listening")
	}

	if cfg.MetricsAddr != "" {
		serveHTTP(g, gctx, observability.MetricsServer(cfg.MetricsAddr, reg), "metrics listening")
	}

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("concierge stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("concierge stopped")
}

// serveHTTP runs srv until ctx ends, then shuts it down gracefully.
func serveHTTP(g *errgroup.Group, ctx context.Context, srv *http.Server, msg string) {
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg(msg)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}
