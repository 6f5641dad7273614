// Package simplifyinfra holds the PostgreSQL repositories for the
// personalization domain.
package simplifyinfra

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/joopert/translate-app/pkg/errx"
	"github.com/joopert/translate-app/pkg/simplify"
)

const uniqueViolation = "23505"

// PostgresProfileRepository implements simplify.ProfileRepository.
type PostgresProfileRepository struct {
	db *sqlx.DB
}

// NewPostgresProfileRepository creates the profile repository.
func NewPostgresProfileRepository(db *sqlx.DB) simplify.ProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) Create(ctx context.Context, profile simplify.Profile) error {
	query := `
		INSERT INTO profiles (id, owner_id, name, config, created_at, updated_at)
		VALUES (:id, :owner_id, :name, :config, :created_at, :updated_at)`

	_, err := r.db.NamedExecContext(ctx, query, profile)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return simplify.ErrRegistry.NewWithCause(simplify.CodeProfileAlreadyExists, err)
		}
		return errx.Wrap(err, "failed to create profile", errx.CategoryServerError)
	}
	return nil
}

func (r *PostgresProfileRepository) Update(ctx context.Context, profile simplify.Profile) error {
	query := `
		UPDATE profiles SET name = :name, config = :config, updated_at = :updated_at
		WHERE id = :id AND owner_id = :owner_id`

	result, err := r.db.NamedExecContext(ctx, query, profile)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return simplify.ErrRegistry.NewWithCause(simplify.CodeProfileAlreadyExists, err)
		}
		return errx.Wrap(err, "failed to update profile", errx.CategoryServerError)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return simplify.ErrRegistry.New(simplify.CodeProfileNotFound)
	}
	return nil
}

func (r *PostgresProfileRepository) Delete(ctx context.Context, ownerID, name string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM profiles WHERE owner_id = $1 AND name = $2`, ownerID, name)
	if err != nil {
		return errx.Wrap(err, "failed to delete profile", errx.CategoryServerError)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return simplify.ErrRegistry.New(simplify.CodeProfileNotFound)
	}
	return nil
}

func (r *PostgresProfileRepository) FindByName(ctx context.Context, ownerID, name string) (*simplify.Profile, error) {
	var profile simplify.Profile
	err := r.db.GetContext(ctx, &profile,
		`SELECT * FROM profiles WHERE owner_id = $1 AND name = $2`, ownerID, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, simplify.ErrRegistry.New(simplify.CodeProfileNotFound)
		}
		return nil, errx.Wrap(err, "failed to find profile", errx.CategoryServerError)
	}
	return &profile, nil
}

func (r *PostgresProfileRepository) FindByID(ctx context.Context, ownerID, id string) (*simplify.Profile, error) {
	var profile simplify.Profile
	err := r.db.GetContext(ctx, &profile,
		`SELECT * FROM profiles WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, simplify.ErrRegistry.New(simplify.CodeProfileNotFound)
		}
		return nil, errx.Wrap(err, "failed to find profile by id", errx.CategoryServerError)
	}
	return &profile, nil
}

func (r *PostgresProfileRepository) ListByOwner(ctx context.Context, ownerID string) ([]simplify.Profile, error) {
	profiles := []simplify.Profile{}
	err := r.db.SelectContext(ctx, &profiles,
		`SELECT * FROM profiles WHERE owner_id = $1 ORDER BY name`, ownerID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list profiles", errx.CategoryServerError)
	}
	return profiles, nil
}

// PostgresOverrideRepository implements simplify.OverrideRepository.
type PostgresOverrideRepository struct {
	db *sqlx.DB
}

// NewPostgresOverrideRepository creates the override repository.
func NewPostgresOverrideRepository(db *sqlx.DB) simplify.OverrideRepository {
	return &PostgresOverrideRepository{db: db}
}

func (r *PostgresOverrideRepository) Create(ctx context.Context, override simplify.WebsiteOverride) error {
	query := `
		INSERT INTO website_overrides (id, owner_id, domain, profile_id, config, created_at, updated_at)
		VALUES (:id, :owner_id, :domain, :profile_id, :config, :created_at, :updated_at)`

	_, err := r.db.NamedExecContext(ctx, query, override)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return simplify.ErrRegistry.NewWithCause(simplify.CodeOverrideAlreadyExists, err)
		}
		return errx.Wrap(err, "failed to create website override", errx.CategoryServerError)
	}
	return nil
}

func (r *PostgresOverrideRepository) Update(ctx context.Context, override simplify.WebsiteOverride) error {
	query := `
		UPDATE website_overrides
		SET domain = :domain, profile_id = :profile_id, config = :config, updated_at = :updated_at
		WHERE id = :id AND owner_id = :owner_id`

	result, err := r.db.NamedExecContext(ctx, query, override)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return simplify.ErrRegistry.NewWithCause(simplify.CodeOverrideAlreadyExists, err)
		}
		return errx.Wrap(err, "failed to update website override", errx.CategoryServerError)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return simplify.ErrRegistry.New(simplify.CodeOverrideNotFound)
	}
	return nil
}

func (r *PostgresOverrideRepository) Delete(ctx context.Context, ownerID, domain string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM website_overrides WHERE owner_id = $1 AND domain = $2`, ownerID, domain)
	if err != nil {
		return errx.Wrap(err, "failed to delete website override", errx.CategoryServerError)
	}
	return nil
}

func (r *PostgresOverrideRepository) FindByDomain(ctx context.Context, ownerID, domain string) (*simplify.WebsiteOverride, error) {
	var override simplify.WebsiteOverride
	err := r.db.GetContext(ctx, &override,
		`SELECT * FROM website_overrides WHERE owner_id = $1 AND domain = $2`, ownerID, domain)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, simplify.ErrRegistry.New(simplify.CodeOverrideNotFound)
		}
		return nil, errx.Wrap(err, "failed to find website override", errx.CategoryServerError)
	}
	return &override, nil
}

func (r *PostgresOverrideRepository) ListByOwner(ctx context.Context, ownerID string) ([]simplify.WebsiteOverride, error) {
	overrides := []simplify.WebsiteOverride{}
	err := r.db.SelectContext(ctx, &overrides,
		`SELECT * FROM website_overrides WHERE owner_id = $1 ORDER BY domain`, ownerID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list website overrides", errx.CategoryServerError)
	}
	return overrides, nil
}

func (r *PostgresOverrideRepository) ListByProfileID(ctx context.Context, ownerID, profileID string) ([]simplify.WebsiteOverride, error) {
	overrides := []simplify.WebsiteOverride{}
	err := r.db.SelectContext(ctx, &overrides,
		`SELECT * FROM website_overrides WHERE owner_id = $1 AND profile_id = $2`, ownerID, profileID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list overrides by profile", errx.CategoryServerError)
	}
	return overrides, nil
}
