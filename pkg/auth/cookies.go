package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/joopert/translate-app/pkg/config"
	"github.com/joopert/translate-app/pkg/logx"
)

const (
	cookieAccessToken     = "access_token"
	cookieIDToken         = "id_token"
	cookieRefreshToken    = "refresh_token"
	cookieIsAuthenticated = "is_authenticated"
	cookieMyProfile       = "my_profile"
)

// CookieWriter issues and clears the session cookie set.
//
// access_token and id_token live as long as the tokens themselves. The
// refresh_token cookie is duplicated across the refresh/logout paths so it
// never travels with ordinary API requests. is_authenticated and my_profile
// are javascript-readable hints for the frontend, never trusted server-side.
type CookieWriter struct {
	cfg config.TokenConfig
}

// NewCookieWriter builds a CookieWriter from the token/cookie configuration.
func NewCookieWriter(cfg config.TokenConfig) *CookieWriter {
	return &CookieWriter{cfg: cfg}
}

// WriteSession sets the full session cookie set after sign-in or refresh.
// A nil user skips the profile snapshot; an empty refresh token (refresh
// responses) leaves the existing refresh cookies untouched.
func (w *CookieWriter) WriteSession(c *fiber.Ctx, tokens *Tokens, user *CurrentUser) {
	accessTTL := w.cfg.AccessTokenTTL
	if tokens.ExpiresIn > 0 {
		accessTTL = time.Duration(tokens.ExpiresIn) * time.Second
	}
	now := time.Now()

	w.set(c, cookieAccessToken, tokens.AccessToken, "/", now.Add(accessTTL), true)
	w.set(c, cookieIDToken, tokens.IDToken, "/", now.Add(accessTTL), true)

	if tokens.RefreshToken != "" {
		for _, path := range w.cfg.RefreshCookiePaths {
			w.setScoped(c, cookieRefreshToken, tokens.RefreshToken, path, now.Add(w.cfg.RefreshTokenTTL))
		}
	}

	w.set(c, cookieIsAuthenticated, "true", "/", now.Add(w.cfg.RefreshTokenTTL), false)

	if user != nil {
		if snapshot, err := encodeProfile(user); err == nil {
			w.set(c, cookieMyProfile, snapshot, "/", now.Add(accessTTL), false)
		} else {
			logx.WithError(err).Warn("Could not encode profile cookie")
		}
	}
}

// Clear expires every session cookie, including the path-scoped refresh copies.
func (w *CookieWriter) Clear(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)
	for _, name := range w.cfg.Cookie.SessionCookies {
		if name == cookieRefreshToken {
			for _, path := range w.cfg.RefreshCookiePaths {
				w.setScoped(c, name, "", path, expired)
			}
			continue
		}
		httpOnly := name != cookieIsAuthenticated && name != cookieMyProfile
		w.set(c, name, "", "/", expired, httpOnly)
	}
}

func (w *CookieWriter) set(c *fiber.Ctx, name, value, path string, expires time.Time, httpOnly bool) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Domain:   w.cfg.Cookie.Domain,
		Expires:  expires,
		Secure:   w.cfg.Cookie.Secure,
		HTTPOnly: httpOnly && w.cfg.Cookie.HTTPOnly,
		SameSite: w.cfg.Cookie.SameSite,
	})
}

// setScoped emits one Set-Cookie header per call. fasthttp's cookie jar
// behind c.Cookie keys entries by name, so writing the same cookie under
// several paths through it keeps only the last path. The scoped refresh
// copies bypass the jar and go out as raw headers.
func (w *CookieWriter) setScoped(c *fiber.Ctx, name, value, path string, expires time.Time) {
	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)

	cookie.SetKey(name)
	cookie.SetValue(value)
	cookie.SetPath(path)
	cookie.SetDomain(w.cfg.Cookie.Domain)
	cookie.SetExpire(expires)
	cookie.SetSecure(w.cfg.Cookie.Secure)
	cookie.SetHTTPOnly(w.cfg.Cookie.HTTPOnly)
	cookie.SetSameSite(sameSiteMode(w.cfg.Cookie.SameSite))

	c.Response().Header.Add(fiber.HeaderSetCookie, cookie.String())
}

func sameSiteMode(v string) fasthttp.CookieSameSite {
	switch strings.ToLower(v) {
	case "strict":
		return fasthttp.CookieSameSiteStrictMode
	case "none":
		return fasthttp.CookieSameSiteNoneMode
	case "lax":
		return fasthttp.CookieSameSiteLaxMode
	default:
		return fasthttp.CookieSameSiteDefaultMode
	}
}

func encodeProfile(user *CurrentUser) (string, error) {
	data, err := json.Marshal(user)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}
