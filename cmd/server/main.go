package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/jusmoore/shipyard/internal/adapters/ado"
	"github.com/jusmoore/shipyard/internal/adapters/azure"
	httpadapter "github.com/jusmoore/shipyard/internal/adapters/http"
	"github.com/jusmoore/shipyard/internal/config"
	"github.com/jusmoore/shipyard/internal/core/ports"
	"github.com/jusmoore/shipyard/internal/core/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	// Hook processing needs the platform identity; without one the app
	// still serves pages so local runs stay useful.
	var hooks *services.HookService
	identity, err := azure.NewManagedIdentity()
	if err != nil {
		log.Warnf("managed identity unavailable (hook processing disabled): %v", err)
	} else {
		var store ports.EventStore
		if cfg.Storage.Account != "" && cfg.Storage.Container != "" {
			store, err = azure.NewBlobStore(cfg.Storage.Account, cfg.Storage.Container, identity.Credential())
			if err != nil {
				log.Warnf("blob store init failed (events will not be persisted): %v", err)
				store = nil
			}
		} else {
			log.Info("no storage account configured, events will not be persisted")
		}

		notifications := ado.NewClient(cfg.ADO.Organization, identity)
		hooks = services.NewHookService(notifications, store, cfg.ADO.SecureFetch)
	}

	app := httpadapter.NewApp(cfg.Server.TemplatesDir, cfg.Server.StaticDir, hooks)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		log.Infof("starting server on %s", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
