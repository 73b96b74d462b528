// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/infrastructure/storage"
	"github.com/your-org/storefront/internal/interfaces/http"
	"github.com/your-org/storefront/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logr := logger.New(cfg)
	logr.Infof("Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	backend, err := storage.Open(cfg, logr)
	if err != nil {
		logr.WithError(err).Fatal("Failed to open cart storage")
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logr.WithError(err).Warn("Failed to close cart storage")
		}
	}()

	cartService := cart.NewService(backend, cfg.Cart, logr)
	if err := cartService.Load(context.Background()); err != nil {
		// The next cart write replaces a corrupt entry
		logr.WithError(err).Warn("Starting with an empty cart")
	}

	productService := product.NewService(product.NewClient(cfg.Catalog), logr)

	server := http.NewServer(cfg, logr, productService, cartService, backend)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logr.WithError(err).Error("HTTP server failed")
		}
		return
	case sig := <-quit:
		logr.WithField("signal", sig.String()).Info("Shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logr.WithError(err).Error("Server forced to shutdown")
		return
	}

	logr.Info("Server exited")
}
