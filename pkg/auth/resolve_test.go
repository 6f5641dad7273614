package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/joopert/translate-app/pkg/auth"
	"github.com/joopert/translate-app/pkg/errx"
)

// --- ResolveUser ---

func TestResolveUser_NoToken(t *testing.T) {
	svc := auth.NewService(&fakeProvider{}, nil)
	_, err := svc.ResolveUser(context.Background(), "", "")
	if !errx.IsCode(err, auth.CodeNoToken) {
		t.Fatalf("expected AUTH_NO_TOKEN, got %v", err)
	}
}

func TestResolveUser_ProfileFromIDToken(t *testing.T) {
	verifier, key := newTestVerifier(t)
	// If the resolver fell back to the provider this email would show up.
	provider := &fakeProvider{user: &auth.ProviderUser{ID: "x", Email: "from-provider@example.com"}}
	svc := auth.NewService(provider, verifier)

	accessToken := signToken(t, key, accessClaims(), testKid)
	idToken := signToken(t, key, idClaims(accessToken), testKid)

	user, err := svc.ResolveUser(context.Background(), accessToken, idToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("profile should come from the id token, got %q", user.Email)
	}
	if user.ID.String() != "user-sub-123" {
		t.Fatalf("user id should be the access token subject, got %q", user.ID)
	}
	if user.AccessToken != accessToken {
		t.Fatal("access token should ride along on the current user")
	}
}

func TestResolveUser_FallsBackToProviderWithoutIDToken(t *testing.T) {
	verifier, key := newTestVerifier(t)
	provider := &fakeProvider{user: &auth.ProviderUser{ID: "x", Username: "alice", Email: "from-provider@example.com"}}
	svc := auth.NewService(provider, verifier)

	accessToken := signToken(t, key, accessClaims(), testKid)

	user, err := svc.ResolveUser(context.Background(), accessToken, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "from-provider@example.com" {
		t.Fatalf("profile should come from the provider, got %q", user.Email)
	}
}

func TestResolveUser_RejectsBadIDToken(t *testing.T) {
	verifier, key := newTestVerifier(t)
	svc := auth.NewService(&fakeProvider{}, verifier)

	accessToken := signToken(t, key, accessClaims(), testKid)

	_, err := svc.ResolveUser(context.Background(), accessToken, "garbage")
	if !errx.IsCode(err, auth.CodeInvalidToken) {
		t.Fatalf("expected AUTH_INVALID_TOKEN, got %v", err)
	}
}

// --- Middleware ---

func newAuthTestApp(svc *auth.Service) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var e *errx.Error
			if errors.As(err, &e) {
				return c.Status(e.HTTPStatus()).JSON(fiber.Map{"detail": []errx.Detail{e.Detail()}})
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})

	mw := auth.NewMiddleware(svc)
	app.Get("/me", mw.Authenticate(), func(c *fiber.Ctx) error {
		return c.JSON(auth.CurrentUserFromCtx(c))
	})
	return app
}

func TestMiddleware_MissingTokenIs401(t *testing.T) {
	verifier, _ := newTestVerifier(t)
	app := newAuthTestApp(auth.NewService(&fakeProvider{}, verifier))

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestMiddleware_BearerHeader(t *testing.T) {
	verifier, key := newTestVerifier(t)
	app := newAuthTestApp(auth.NewService(&fakeProvider{}, verifier))

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, key, accessClaims(), testKid))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestMiddleware_AccessTokenCookie(t *testing.T) {
	verifier, key := newTestVerifier(t)
	app := newAuthTestApp(auth.NewService(&fakeProvider{}, verifier))

	req := httptest.NewRequest("GET", "/me", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: signToken(t, key, accessClaims(), testKid)})

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestMiddleware_ExpiredTokenIs401(t *testing.T) {
	verifier, key := newTestVerifier(t)
	app := newAuthTestApp(auth.NewService(&fakeProvider{}, verifier))

	claims := accessClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, key, claims, testKid))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}
