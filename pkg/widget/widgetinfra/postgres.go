// Package widgetinfra holds the site storage and cache implementations.
package widgetinfra

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/joopert/translate-app/pkg/errx"
	"github.com/joopert/translate-app/pkg/widget"
)

// PostgresSiteRepository implements widget.SiteRepository.
type PostgresSiteRepository struct {
	db *sqlx.DB
}

// NewPostgresSiteRepository creates the site repository.
func NewPostgresSiteRepository(db *sqlx.DB) widget.SiteRepository {
	return &PostgresSiteRepository{db: db}
}

func (r *PostgresSiteRepository) FindByDomainAndSiteID(ctx context.Context, domain, siteID string) (*widget.Site, error) {
	var site widget.Site
	err := r.db.GetContext(ctx, &site,
		`SELECT * FROM sites WHERE domain = $1 AND site_id = $2 AND active = TRUE`, domain, siteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, widget.ErrRegistry.New(widget.CodeInvalidSite)
		}
		return nil, errx.Wrap(err, "failed to look up site", errx.CategoryServerError)
	}
	return &site, nil
}
