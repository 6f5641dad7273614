// Package authapi exposes the session lifecycle over HTTP.
package authapi

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/joopert/translate-app/pkg/asyncx"
	"github.com/joopert/translate-app/pkg/auth"
	"github.com/joopert/translate-app/pkg/errx"
	"github.com/joopert/translate-app/pkg/logx"
)

const oauthStateCookie = "oauth_state"

// Registrar is notified when an account finishes provisioning, so the
// application can create its own user record and trial subscription.
type Registrar interface {
	EnsureRegistered(ctx context.Context, email string) error
}

// Handler serves the /auth routes.
type Handler struct {
	service     *auth.Service
	oauth       auth.CodeExchanger
	cookies     *auth.CookieWriter
	middleware  *auth.Middleware
	registrar   Registrar
	frontendURL string
}

// NewHandler wires the auth routes. registrar may be nil.
func NewHandler(
	service *auth.Service,
	oauth auth.CodeExchanger,
	cookies *auth.CookieWriter,
	middleware *auth.Middleware,
	registrar Registrar,
	frontendURL string,
) *Handler {
	return &Handler{
		service:     service,
		oauth:       oauth,
		cookies:     cookies,
		middleware:  middleware,
		registrar:   registrar,
		frontendURL: frontendURL,
	}
}

// RegisterRoutes mounts the auth endpoints under router.
func (h *Handler) RegisterRoutes(router fiber.Router) {
	group := router.Group("/auth")

	group.Post("/sign-in", h.signIn)
	group.Get("/sign-in/google", h.googleSignIn)
	group.Get("/callback", h.oauthCallback)
	group.Post("/refresh", h.refresh)
	group.Post("/logout/session", h.logoutSession)
	group.Post("/logout/all-devices", h.middleware.Authenticate(), h.logoutAllDevices)
	group.Get("/me", h.middleware.Authenticate(), h.me)

	group.Post("/sign-up", h.signUp)
	group.Post("/confirm-sign-up", h.confirmSignUp)
	group.Post("/resend-confirmation-code", h.resendConfirmationCode)

	group.Post("/forgot-password", h.forgotPassword)
	group.Post("/confirm-forgot-password", h.confirmForgotPassword)
	group.Post("/change-password", h.middleware.Authenticate(), h.changePassword)
	group.Post("/set-initial-password", h.setInitialPassword)
}

// ============================================================================
// Session Lifecycle
// ============================================================================

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) signIn(c *fiber.Ctx) error {
	var req signInRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Validation("AUTH_INVALID_BODY", "Invalid request body").WithCause(err)
	}
	if req.Email == "" {
		return errx.Validation("AUTH_MISSING_EMAIL", "Email is required").WithField("email")
	}
	if req.Password == "" {
		return errx.Validation("AUTH_MISSING_PASSWORD", "Password is required").WithField("password")
	}

	result, err := h.service.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	if result.Challenge != nil {
		return c.JSON(result.Challenge)
	}

	return h.establishSession(c, result.Tokens)
}

func (h *Handler) refresh(c *fiber.Ctx) error {
	tokens, err := h.service.Refresh(c.UserContext(), c.Cookies("refresh_token"))
	if err != nil {
		return err
	}
	return h.establishSession(c, tokens)
}

func (h *Handler) logoutSession(c *fiber.Ctx) error {
	if err := h.service.LogoutSession(c.UserContext(), c.Cookies("refresh_token")); err != nil {
		return err
	}
	h.cookies.Clear(c)
	return c.JSON(fiber.Map{"message": "Logged out"})
}

func (h *Handler) logoutAllDevices(c *fiber.Ctx) error {
	user := auth.CurrentUserFromCtx(c)
	if err := h.service.LogoutAllDevices(c.UserContext(), user.AccessToken); err != nil {
		return err
	}
	h.cookies.Clear(c)
	return c.JSON(fiber.Map{"message": "Logged out everywhere"})
}

func (h *Handler) me(c *fiber.Ctx) error {
	return c.JSON(auth.CurrentUserFromCtx(c))
}

// establishSession resolves the user behind freshly issued tokens, writes
// the session cookies and returns the profile.
func (h *Handler) establishSession(c *fiber.Ctx, tokens *auth.Tokens) error {
	user, err := h.service.ResolveUser(c.UserContext(), tokens.AccessToken, tokens.IDToken)
	if err != nil {
		return err
	}
	h.cookies.WriteSession(c, tokens, user)
	return c.JSON(user)
}

// ============================================================================
// Google Sign-In (hosted UI)
// ============================================================================

func (h *Handler) googleSignIn(c *fiber.Ctx) error {
	state := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/api/auth/callback",
		Expires:  time.Now().Add(10 * time.Minute),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.Redirect(h.oauth.AuthorizeURL(state), fiber.StatusTemporaryRedirect)
}

func (h *Handler) oauthCallback(c *fiber.Ctx) error {
	state := c.Query("state")
	if state == "" || state != c.Cookies(oauthStateCookie) {
		return auth.ErrRegistry.New(auth.CodeOAuthStateMismatch).WithLocation(errx.LocationQuery)
	}
	code := c.Query("code")
	if code == "" {
		return errx.Validation("AUTH_MISSING_CODE", "Missing authorization code").
			WithField("code").WithLocation(errx.LocationQuery)
	}

	tokens, err := h.oauth.ExchangeCode(c.UserContext(), code)
	if err != nil {
		return err
	}

	user, err := h.service.ResolveUser(c.UserContext(), tokens.AccessToken, tokens.IDToken)
	if err != nil {
		return err
	}
	h.cookies.WriteSession(c, tokens, user)
	h.notifyRegistrar(user.Email)

	return c.Redirect(h.frontendURL, fiber.StatusTemporaryRedirect)
}

// ============================================================================
// Registration
// ============================================================================

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) signUp(c *fiber.Ctx) error {
	var req signUpRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Validation("AUTH_INVALID_BODY", "Invalid request body").WithCause(err)
	}
	if req.Email == "" {
		return errx.Validation("AUTH_MISSING_EMAIL", "Email is required").WithField("email")
	}
	if req.Password == "" {
		return errx.Validation("AUTH_MISSING_PASSWORD", "Password is required").WithField("password")
	}

	id, err := h.service.SignUp(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      id,
		"message": "Confirmation code sent",
	})
}

type confirmSignUpRequest struct {
	Email            string `json:"email"`
	ConfirmationCode string `json:"confirmation_code"`
}

func (h *Handler) confirmSignUp(c *fiber.Ctx) error {
	var req confirmSignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Validation("AUTH_INVALID_BODY", "Invalid request body").WithCause(err)
	}
	if req.Email == "" {
		return errx.Validation("AUTH_MISSING_EMAIL", "Email is required").WithField("email")
	}
	if req.ConfirmationCode == "" {
		return errx.Validation("AUTH_MISSING_CODE", "Confirmation code is required").WithField("confirmation_code")
	}

	if err := h.service.ConfirmSignUp(c.UserContext(), req.Email, req.ConfirmationCode); err != nil {
		return err
	}
	h.notifyRegistrar(req.Email)

	return c.JSON(fiber.Map{"message": "Account confirmed"})
}

type emailRequest struct {
	Email string `json:"email"`
}

func (h *Handler) resendConfirmationCode(c *fiber.Ctx) error {
	var req emailRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Validation("AUTH_INVALID_BODY", "Invalid request body").WithCause(err)
	}
	if req.Email == "" {
		return errx.Validation("AUTH_MISSING_EMAIL", "Email is required").WithField("email")
	}

	if err := h.service.ResendConfirmationCode(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Confirmation code sent"})
}

// ============================================================================
// Password Flows
// ============================================================================

func (h *Handler) forgotPassword(c *fiber.Ctx) error {
	var req emailRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Validation("AUTH_INVALID_BODY", "Invalid request body").WithCause(err)
	}
	if req.Email == "" {
		return errx.Validation("AUTH_MISSING_EMAIL", "Email is required").WithField("email")
	}

	if err := h.service.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "If the account exists, a reset code was sent"})
}

type confirmForgotPasswordRequest struct {
	Email            string `json:"email"`
	ConfirmationCode string `json:"confirmation_code"`
	NewPassword      string `json:"new_password"`
}

func (h *Handler) confirmForgotPassword(c *fiber.Ctx) error {
	var req confirmForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Validation("AUTH_INVALID_BODY", "Invalid request body").WithCause(err)
	}
	if req.Email == "" {
		return errx.Validation("AUTH_MISSING_EMAIL", "Email is required").WithField("email")
	}
	if req.ConfirmationCode == "" {
		return errx.Validation("AUTH_MISSING_CODE", "Confirmation code is required").WithField("confirmation_code")
	}
	if req.NewPassword == "" {
		return errx.Validation("AUTH_MISSING_PASSWORD", "New password is required").WithField("new_password")
	}

	if err := h.service.ConfirmForgotPassword(c.UserContext(), req.Email, req.ConfirmationCode, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Password has been reset"})
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (h *Handler) changePassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Validation("AUTH_INVALID_BODY", "Invalid request body").WithCause(err)
	}
	if req.OldPassword == "" {
		return errx.Validation("AUTH_MISSING_PASSWORD", "Old password is required").WithField("old_password")
	}
	if req.NewPassword == "" {
		return errx.Validation("AUTH_MISSING_PASSWORD", "New password is required").WithField("new_password")
	}

	user := auth.CurrentUserFromCtx(c)
	if err := h.service.ChangePassword(c.UserContext(), user.AccessToken, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Password changed"})
}

type setInitialPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"new_password"`
	Session     string `json:"session"`
}

func (h *Handler) setInitialPassword(c *fiber.Ctx) error {
	var req setInitialPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Validation("AUTH_INVALID_BODY", "Invalid request body").WithCause(err)
	}
	if req.Email == "" {
		return errx.Validation("AUTH_MISSING_EMAIL", "Email is required").WithField("email")
	}
	if req.NewPassword == "" {
		return errx.Validation("AUTH_MISSING_PASSWORD", "New password is required").WithField("new_password")
	}
	if req.Session == "" {
		return errx.Validation("AUTH_MISSING_SESSION", "Challenge session is required").WithField("session")
	}

	tokens, err := h.service.SetInitialPassword(c.UserContext(), req.Email, req.NewPassword, req.Session)
	if err != nil {
		return err
	}
	return h.establishSession(c, tokens)
}

// notifyRegistrar provisions the application-side user record in the
// background; sign-in latency never waits on it.
func (h *Handler) notifyRegistrar(email string) {
	if h.registrar == nil {
		return
	}
	asyncx.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := h.registrar.EnsureRegistered(ctx, email); err != nil {
			logx.WithError(err).Error("User registration hook failed")
		}
	})
}
