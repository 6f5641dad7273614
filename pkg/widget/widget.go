// Package widget guards the embeddable widget surface: every request must
// come from a registered site.
package widget

import (
	"time"

	"github.com/joopert/translate-app/pkg/errx"
)

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("WIDGET")

var (
	CodeInvalidOrigin = ErrRegistry.Register("INVALID_ORIGIN", errx.CategoryAuthorization, "origin", "Invalid origin")
	CodeInvalidSite   = ErrRegistry.Register("INVALID_SITE", errx.CategoryAuthorization, "x-site-id", "Invalid site_id or domain")
)

// ============================================================================
// Domain Types
// ============================================================================

// Site is one registered widget installation: a domain plus the site id
// embedded in that domain's pages.
type Site struct {
	ID        string    `db:"id" json:"id"`
	Domain    string    `db:"domain" json:"domain"`
	SiteID    string    `db:"site_id" json:"site_id"`
	OwnerID   *string   `db:"owner_id" json:"owner_id,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
