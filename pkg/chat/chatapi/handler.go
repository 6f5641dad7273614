// Package chatapi exposes the chat relay over HTTP.
package chatapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/joopert/translate-app/pkg/chat"
	"github.com/joopert/translate-app/pkg/chat/chatsrv"
	"github.com/joopert/translate-app/pkg/errx"
	"github.com/joopert/translate-app/pkg/widget"
)

// Handler serves the chat routes.
type Handler struct {
	service  *chatsrv.Service
	verifier *widget.Verifier
}

// NewHandler wires the chat routes. The widget verifier guards the public
// route; it may be nil in tests.
func NewHandler(service *chatsrv.Service, verifier *widget.Verifier) *Handler {
	return &Handler{service: service, verifier: verifier}
}

// RegisterRoutes mounts the chat endpoints under /simplify/chat.
func (h *Handler) RegisterRoutes(router fiber.Router) {
	group := router.Group("/simplify/chat")

	if h.verifier != nil {
		group.Post("/public", h.verifier.VerifySite(), h.chatPublic)
	} else {
		group.Post("/public", h.chatPublic)
	}
}

// chatPublic relays one widget message without user authentication; the
// site verification middleware is the only gate.
func (h *Handler) chatPublic(c *fiber.Ctx) error {
	var req chat.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Validation("CHAT_INVALID_BODY", "Invalid request body").WithCause(err)
	}

	response, err := h.service.ProcessMessage(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(response)
}
