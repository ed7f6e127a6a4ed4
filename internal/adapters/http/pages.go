package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// PageHandler serves the template-rendered pages.
type PageHandler struct{}

// NewPageHandler creates the page handler.
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Index renders the landing page.
func (h *PageHandler) Index(c *fiber.Ctx) error {
	return c.Render("index", fiber.Map{})
}

// Hello handles the greeting form. The name field must be non-empty.
func (h *PageHandler) Hello(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return c.Status(fiber.StatusUnprocessableEntity).SendString("name is required")
	}
	return c.Render("hello", fiber.Map{
		"Name": name,
	})
}
