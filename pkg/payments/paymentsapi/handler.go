// Package paymentsapi exposes the plan catalog over HTTP.
package paymentsapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/joopert/translate-app/pkg/logx"
	"github.com/joopert/translate-app/pkg/payments/planssrv"
)

// Handler serves the /payments routes.
type Handler struct {
	plans *planssrv.Manager
}

// NewHandler wires the payments routes around the plans manager.
func NewHandler(plans *planssrv.Manager) *Handler {
	return &Handler{plans: plans}
}

// RegisterRoutes mounts the payments endpoints under router.
// The refresh route is registered before the :plan_id route so it is not
// captured as a plan id.
func (h *Handler) RegisterRoutes(router fiber.Router) {
	group := router.Group("/payments")

	group.Get("/plans", h.listPlans)
	group.Get("/plans/refresh", h.refreshPlans)
	group.Get("/plans/:plan_id", h.getPlan)
	group.Post("/webhook", h.webhook)
}

func (h *Handler) listPlans(c *fiber.Ctx) error {
	plans, err := h.plans.GetPlans(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(plans)
}

func (h *Handler) refreshPlans(c *fiber.Ctx) error {
	if err := h.plans.Refresh(c.UserContext(), true); err != nil {
		return err
	}
	plans, err := h.plans.Plans()
	if err != nil {
		return err
	}
	return c.JSON(plans)
}

func (h *Handler) getPlan(c *fiber.Ctx) error {
	plans, err := h.plans.GetPlans(c.UserContext())
	if err != nil {
		return err
	}
	plan, err := plans.FindByID(c.Params("plan_id"))
	if err != nil {
		return err
	}
	return c.JSON(plan)
}

// webhook acknowledges provider events. Subscription state sync is driven
// by the plans refresh cycle for now.
// TODO: verify the Polar webhook signature once subscription sync lands.
func (h *Handler) webhook(c *fiber.Ctx) error {
	logx.WithField("bytes", len(c.Body())).Info("Received payments webhook")
	return c.SendStatus(fiber.StatusAccepted)
}
