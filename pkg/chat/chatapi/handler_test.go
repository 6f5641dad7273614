package chatapi_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/joopert/translate-app/pkg/auth"
	"github.com/joopert/translate-app/pkg/chat"
	"github.com/joopert/translate-app/pkg/chat/chatapi"
	"github.com/joopert/translate-app/pkg/chat/chatsrv"
	"github.com/joopert/translate-app/pkg/errx"
	"github.com/joopert/translate-app/pkg/simplify/simplifyapi"
)

// fakeLLM answers every message with a canned reply.
type fakeLLM struct{}

func (f *fakeLLM) Complete(_ context.Context, _ string, _ []chat.Message, _ string) (string, error) {
	return "a simpler explanation", nil
}

// newRelayTestApp mirrors the server's registration order: the auth-gated
// simplify routes first, then the chat relay under the same prefix.
func newRelayTestApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var e *errx.Error
			if errors.As(err, &e) {
				return c.Status(e.HTTPStatus()).JSON(fiber.Map{"detail": []errx.Detail{e.Detail()}})
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})

	api := app.Group("/api")

	middleware := auth.NewMiddleware(auth.NewService(nil, nil))
	simplifyapi.NewHandler(nil, middleware).RegisterRoutes(api)

	service := chatsrv.NewService(&fakeLLM{}, chat.NewConversationStore())
	chatapi.NewHandler(service, nil).RegisterRoutes(api)

	return app
}

func TestChatPublic_NoUserAuthenticationRequired(t *testing.T) {
	app := newRelayTestApp()

	body := `{"conversation_id":"conv-1","message_id":"m-1","message":"what does this mean?","config":{}}`
	req := httptest.NewRequest("POST", "/api/simplify/chat/public", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("public chat must not require a session, got status %d", resp.StatusCode)
	}
}

func TestChatPublic_SiblingSimplifyRoutesStayGated(t *testing.T) {
	app := newRelayTestApp()

	req := httptest.NewRequest("GET", "/api/simplify/profiles", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("profiles must stay auth-gated, got status %d", resp.StatusCode)
	}
}
