// Package simplifyapi exposes profiles and website overrides over HTTP.
package simplifyapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/joopert/translate-app/pkg/auth"
	"github.com/joopert/translate-app/pkg/errx"
	"github.com/joopert/translate-app/pkg/simplify"
	"github.com/joopert/translate-app/pkg/simplify/simplifysrv"
)

// Handler serves the /simplify personalization routes.
type Handler struct {
	service    *simplifysrv.Service
	middleware *auth.Middleware
}

// NewHandler wires the simplify routes.
func NewHandler(service *simplifysrv.Service, middleware *auth.Middleware) *Handler {
	return &Handler{service: service, middleware: middleware}
}

// RegisterRoutes mounts the personalization endpoints, all auth-gated.
// The gate is attached per sub-resource, not to the /simplify prefix: the
// public chat relay lives under /simplify/chat and must stay open.
func (h *Handler) RegisterRoutes(router fiber.Router) {
	group := router.Group("/simplify")

	profiles := group.Group("/profiles", h.middleware.Authenticate())
	profiles.Get("/", h.listProfiles)
	profiles.Post("/", h.createProfile)
	profiles.Get("/:name", h.getProfile)
	profiles.Put("/:name", h.updateProfile)
	profiles.Delete("/:name", h.deleteProfile)

	overrides := group.Group("/website_overrides", h.middleware.Authenticate())
	overrides.Get("/", h.listOverrides)
	overrides.Post("/", h.createOverride)
	overrides.Get("/:domain", h.getOverride)
	overrides.Put("/:domain", h.updateOverride)
	overrides.Delete("/:domain", h.deleteOverride)
}

// ============================================================================
// Profiles
// ============================================================================

type profileRequest struct {
	Name   string          `json:"name"`
	Config simplify.Config `json:"config"`
}

func (h *Handler) listProfiles(c *fiber.Ctx) error {
	user := auth.CurrentUserFromCtx(c)
	profiles, err := h.service.ListProfiles(c.UserContext(), user.ID.String())
	if err != nil {
		return err
	}
	return c.JSON(profiles)
}

func (h *Handler) createProfile(c *fiber.Ctx) error {
	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Validation("SIMPLIFY_INVALID_BODY", "Invalid request body").WithCause(err)
	}
	if req.Name == "" {
		return errx.Validation("SIMPLIFY_MISSING_NAME", "Profile name is required").WithField("name")
	}

	user := auth.CurrentUserFromCtx(c)
	profile, err := h.service.CreateProfile(c.UserContext(), user.ID.String(), req.Name, req.Config)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(profile)
}

func (h *Handler) getProfile(c *fiber.Ctx) error {
	user := auth.CurrentUserFromCtx(c)
	profile, err := h.service.GetProfile(c.UserContext(), user.ID.String(), c.Params("name"))
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

func (h *Handler) updateProfile(c *fiber.Ctx) error {
	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Validation("SIMPLIFY_INVALID_BODY", "Invalid request body").WithCause(err)
	}
	if req.Name == "" {
		return errx.Validation("SIMPLIFY_MISSING_NAME", "Profile name is required").WithField("name")
	}

	user := auth.CurrentUserFromCtx(c)
	profile, err := h.service.UpdateProfile(c.UserContext(), user.ID.String(), c.Params("name"), req.Name, req.Config)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

func (h *Handler) deleteProfile(c *fiber.Ctx) error {
	user := auth.CurrentUserFromCtx(c)
	if err := h.service.DeleteProfile(c.UserContext(), user.ID.String(), c.Params("name")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ============================================================================
// Website Overrides
// ============================================================================

type overrideRequest struct {
	Domain    string          `json:"domain"`
	ProfileID *string         `json:"profile_id"`
	Config    simplify.Config `json:"config"`
}

func (h *Handler) listOverrides(c *fiber.Ctx) error {
	user := auth.CurrentUserFromCtx(c)
	overrides, err := h.service.ListOverrides(c.UserContext(), user.ID.String())
	if err != nil {
		return err
	}
	return c.JSON(overrides)
}

func (h *Handler) createOverride(c *fiber.Ctx) error {
	var req overrideRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Validation("SIMPLIFY_INVALID_BODY", "Invalid request body").WithCause(err)
	}
	if req.Domain == "" {
		return errx.Validation("SIMPLIFY_MISSING_DOMAIN", "Domain is required").WithField("domain")
	}

	user := auth.CurrentUserFromCtx(c)
	override, err := h.service.CreateOverride(c.UserContext(), user.ID.String(), req.Domain, req.ProfileID, req.Config)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(override)
}

func (h *Handler) getOverride(c *fiber.Ctx) error {
	user := auth.CurrentUserFromCtx(c)
	override, err := h.service.GetOverride(c.UserContext(), user.ID.String(), c.Params("domain"))
	if err != nil {
		return err
	}
	return c.JSON(override)
}

func (h *Handler) updateOverride(c *fiber.Ctx) error {
	var req overrideRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Validation("SIMPLIFY_INVALID_BODY", "Invalid request body").WithCause(err)
	}
	if req.Domain == "" {
		return errx.Validation("SIMPLIFY_MISSING_DOMAIN", "Domain is required").WithField("domain")
	}

	user := auth.CurrentUserFromCtx(c)
	override, err := h.service.UpdateOverride(c.UserContext(), user.ID.String(), c.Params("domain"), req.Domain, req.ProfileID, req.Config)
	if err != nil {
		return err
	}
	return c.JSON(override)
}

func (h *Handler) deleteOverride(c *fiber.Ctx) error {
	user := auth.CurrentUserFromCtx(c)
	if err := h.service.DeleteOverride(c.UserContext(), user.ID.String(), c.Params("domain")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
