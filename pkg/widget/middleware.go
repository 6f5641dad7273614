package widget

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/joopert/translate-app/pkg/errx"
	"github.com/joopert/translate-app/pkg/kernel"
	"github.com/joopert/translate-app/pkg/logx"
)

// Verifier is the middleware that admits only registered sites to the
// widget surface. A Redis cache sits in front of the database lookup.
type Verifier struct {
	repo  SiteRepository
	cache SiteCache
}

// NewVerifier builds the site verification middleware.
func NewVerifier(repo SiteRepository, cache SiteCache) *Verifier {
	return &Verifier{repo: repo, cache: cache}
}

// VerifySite checks the X-Site-Id header against the site registered for
// the request's Origin. The verified site lands in request locals.
func (v *Verifier) VerifySite() fiber.Handler {
	return func(c *fiber.Ctx) error {
		siteID := c.Get("X-Site-Id")
		if siteID == "" {
			return ErrRegistry.New(CodeInvalidSite).WithLocation(errx.LocationHeader)
		}

		domain, err := originDomain(c.Get("Origin"))
		if err != nil {
			return err
		}

		site, err := v.lookup(c, domain, siteID)
		if err != nil {
			return err
		}
		if site.Domain != domain {
			return ErrRegistry.New(CodeInvalidSite).WithLocation(errx.LocationHeader)
		}

		c.Locals(kernel.SiteKey, site)
		return c.Next()
	}
}

// SiteFromCtx returns the verified site set by VerifySite.
func SiteFromCtx(c *fiber.Ctx) *Site {
	site, _ := c.Locals(kernel.SiteKey).(*Site)
	return site
}

func (v *Verifier) lookup(c *fiber.Ctx, domain, siteID string) (*Site, error) {
	ctx := c.UserContext()

	site, err := v.cache.Get(ctx, siteID)
	if err != nil {
		logx.WithError(err).Warn("Site cache read failed, falling back to database")
	}
	if site != nil {
		return site, nil
	}

	site, err = v.repo.FindByDomainAndSiteID(ctx, domain, siteID)
	if err != nil {
		return nil, err
	}
	if cacheErr := v.cache.Set(ctx, site); cacheErr != nil {
		logx.WithError(cacheErr).Warn("Site cache write failed")
	}
	return site, nil
}

// originDomain extracts the host from an Origin header. Hosts without a
// dot (like bare localhost) are rejected so the check cannot be satisfied
// from arbitrary local servers.
func originDomain(origin string) (string, error) {
	if origin == "" {
		return "", ErrRegistry.New(CodeInvalidOrigin).WithLocation(errx.LocationHeader)
	}
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Hostname() == "" || !strings.Contains(parsed.Hostname(), ".") {
		return "", ErrRegistry.New(CodeInvalidOrigin).WithLocation(errx.LocationHeader)
	}
	return parsed.Hostname(), nil
}
