package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/joopert/translate-app/pkg/kernel"
)

// Middleware resolves the calling user for protected routes.
type Middleware struct {
	service *Service
}

// NewMiddleware creates the auth middleware around the session service.
func NewMiddleware(service *Service) *Middleware {
	return &Middleware{service: service}
}

// Authenticate validates the caller's tokens and stores the resolved
// CurrentUser in request locals. The access token is taken from the
// Authorization bearer header first, then the access_token cookie.
func (m *Middleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := extractAccessToken(c)
		if accessToken == "" {
			return ErrNoToken()
		}

		user, err := m.service.ResolveUser(c.UserContext(), accessToken, c.Cookies("id_token"))
		if err != nil {
			return err
		}

		c.Locals(kernel.CurrentUserKey, user)
		return c.Next()
	}
}

// CurrentUserFromCtx returns the resolved user set by Authenticate, or nil
// when the route is not auth-gated.
func CurrentUserFromCtx(c *fiber.Ctx) *CurrentUser {
	user, _ := c.Locals(kernel.CurrentUserKey).(*CurrentUser)
	return user
}

func extractAccessToken(c *fiber.Ctx) string {
	if authHeader := c.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "" {
			return parts[1]
		}
	}
	return c.Cookies("access_token")
}
