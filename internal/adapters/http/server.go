// Package http is the web app's HTTP layer: the template-rendered pages,
// the static file mount, and the service-hook routes.
package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	log "github.com/sirupsen/logrus"

	"github.com/jusmoore/shipyard/internal/core/services"
)

// NewApp builds the fiber application with views, static assets and all
// routes registered. hooks may be nil when the app runs without an
// identity (local development); the hook route then responds 503.
func NewApp(templatesDir, staticDir string, hooks *services.HookService) *fiber.App {
	engine := html.New(templatesDir, ".html")

	app := fiber.New(fiber.Config{
		Views:                 engine,
		DisableStartupMessage: true,
	})

	app.Use(requestLogger())

	app.Static("/static", staticDir)

	pages := NewPageHandler()
	app.Get("/", pages.Index)
	app.Post("/hello", pages.Hello)

	hookHandler := NewHookHandler(hooks)
	app.Post("/hooks/ado/build", hookHandler.Build)

	return app
}

// requestLogger logs one line per completed request.
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		log.WithFields(log.Fields{
			"status":     c.Response().StatusCode(),
			"method":     c.Method(),
			"path":       c.Path(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.IP(),
		}).Info("request completed")

		return err
	}
}
