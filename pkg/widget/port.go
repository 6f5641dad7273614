package widget

import "context"

// SiteRepository looks up registered sites.
type SiteRepository interface {
	// FindByDomainAndSiteID returns the active site for the pair, or an
	// INVALID_SITE error when none matches.
	FindByDomainAndSiteID(ctx context.Context, domain, siteID string) (*Site, error)
}

// SiteCache keeps verified sites close to the request path. A cache miss
// returns (nil, nil).
type SiteCache interface {
	Get(ctx context.Context, siteID string) (*Site, error)
	Set(ctx context.Context, site *Site) error
}
