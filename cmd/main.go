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

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/ototansan/internal/auth"
	"github.com/ukydev/ototansan/internal/config"
	"github.com/ukydev/ototansan/internal/locale"
	"github.com/ukydev/ototansan/internal/middleware"
	"github.com/ukydev/ototansan/internal/printer"
	"github.com/ukydev/ototansan/internal/render"
	"github.com/ukydev/ototansan/internal/router"
	"github.com/ukydev/ototansan/internal/session"
)

// newPrinter returns the MQTT print station printer when a broker is
// configured and the log-only printer otherwise.
func newPrinter(cfg config.Config) (printer.Printer, func(), error) {
	if cfg.MQTTBroker == "" {
		log.Info("No print station configured, print jobs are only logged")
		return printer.LogPrinter{}, func() {}, nil
	}
	p, err := printer.NewMQTTPrinter(cfg.MQTTBroker, cfg.MQTTClientID, cfg.MQTTPrintTopic)
	if err != nil {
		return nil, nil, err
	}
	return p, p.Close, nil
}

// newHandler wires the services behind the HTTP routes. Idle page sessions
// are expired until ctx is done.
func newHandler(ctx context.Context, cfg config.Config, p printer.Printer) (http.Handler, error) {
	authService, err := auth.NewService(auth.Options{
		JWTSecret:  cfg.JWTSecret,
		TokenExp:   cfg.JWTExpiry,
		LoginDelay: cfg.LoginDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	renderer, err := render.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	registry := session.NewRegistry(authService, session.Options{
		Locale:     locale.New(cfg.Locale),
		Printer:    p,
		PrintDelay: cfg.PrintDelay,
	})
	if cfg.SessionSweep > 0 {
		go registry.Run(ctx, cfg.SessionSweep, cfg.SessionIdle)
	}

	return router.New(router.Deps{
		Auth:      authService,
		Registry:  registry,
		Renderer:  renderer,
		RateLimit: middleware.NewRateLimitMiddleware(cfg.RateLimitMax, cfg.RateLimitWindow),
	}), nil
}

func main() {
	cfg := config.Load()
	cfg.ConfigureLogging()

	p, closePrinter, err := newPrinter(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to print station")
	}
	defer closePrinter()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler, err := newHandler(ctx, cfg, p)
	if err != nil {
		log.WithError(err).Fatal("Failed to start")
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithFields(log.Fields{"port": cfg.Port, "locale": cfg.Locale}).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server error")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}
	log.Info("Server stopped")
}
