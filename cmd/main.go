package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/mercy-korir600/LiveDev/internal/config"
	"github.com/mercy-korir600/LiveDev/internal/handler"
	"github.com/mercy-korir600/LiveDev/internal/identity"
	"github.com/mercy-korir600/LiveDev/internal/registry"
	"github.com/mercy-korir600/LiveDev/internal/service"
	pkglog "github.com/mercy-korir600/LiveDev/pkg/log"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Pretty,
		ServiceName: "livedev-relay",
	})
	logger := pkglog.L()

	logger.Info().Msg("starting livedev relay")

	ids, err := identity.New(cfg.Relay.CodeLength, cfg.Relay.CodeAlphabet)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid room code settings")
	}

	reg := registry.New(ids, registry.Config{
		QueueSize:   cfg.Relay.QueueSize,
		IdleTimeout: cfg.Relay.IdleTimeout,
	})

	relaySvc := service.NewRelayService(reg, ids)

	httpHandler := handler.NewHTTPHandler(relaySvc)
	wsHandler := handler.NewWSHandler(relaySvc, cfg.WebSocket, cfg.Relay.JoinTimeout)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), pkglog.GinMiddleware(logger))
	httpHandler.RegisterRoutes(engine, wsHandler)

	server := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:     engine,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		reg.Sweep(gCtx, cfg.Relay.SweepInterval)
		return nil
	})

	g.Go(func() error {
		logger.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server exited with error")
		return
	}
	logger.Info().Msg("stopped")
}
