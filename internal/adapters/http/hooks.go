package http

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/jusmoore/shipyard/internal/core/domain"
	"github.com/jusmoore/shipyard/internal/core/services"
)

// HookHandler receives Azure DevOps service-hook deliveries.
type HookHandler struct {
	hooks *services.HookService
}

// NewHookHandler creates the hook handler.
func NewHookHandler(hooks *services.HookService) *HookHandler {
	return &HookHandler{hooks: hooks}
}

// Build receives build events. The error message goes into the HTTP
// response body: the subscription captures it and shows it in the
// service-hook history, which is the only debugging surface available.
func (h *HookHandler) Build(c *fiber.Ctx) error {
	if h.hooks == nil {
		return c.Status(fiber.StatusServiceUnavailable).SendString("hook processing not configured")
	}

	var event domain.Event
	if err := c.BodyParser(&event); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("invalid event payload")
	}

	if raw, err := json.Marshal(event); err == nil {
		log.WithField("event", string(raw)).Info("received event")
	}

	if err := h.hooks.HandleBuildEvent(c.Context(), event); err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, domain.ErrEventNotVerified) {
			status = fiber.StatusForbidden
		}
		return c.Status(status).SendString(err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}
