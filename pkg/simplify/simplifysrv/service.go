// Package simplifysrv implements the personalization use cases.
package simplifysrv

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joopert/translate-app/pkg/errx"
	"github.com/joopert/translate-app/pkg/simplify"
)

// Service owns profile and website-override workflows for one store pair.
type Service struct {
	profiles  simplify.ProfileRepository
	overrides simplify.OverrideRepository
}

// NewService builds the personalization service.
func NewService(profiles simplify.ProfileRepository, overrides simplify.OverrideRepository) *Service {
	return &Service{profiles: profiles, overrides: overrides}
}

// ============================================================================
// Profiles
// ============================================================================

// ListProfiles returns all profiles of an owner.
func (s *Service) ListProfiles(ctx context.Context, ownerID string) ([]simplify.Profile, error) {
	return s.profiles.ListByOwner(ctx, ownerID)
}

// GetProfile returns one profile by its name.
func (s *Service) GetProfile(ctx context.Context, ownerID, name string) (*simplify.Profile, error) {
	return s.profiles.FindByName(ctx, ownerID, name)
}

// CreateProfile stores a new profile. The name must be free for this owner.
func (s *Service) CreateProfile(ctx context.Context, ownerID, name string, cfg simplify.Config) (*simplify.Profile, error) {
	if _, err := s.profiles.FindByName(ctx, ownerID, name); err == nil {
		return nil, simplify.ErrRegistry.New(simplify.CodeProfileAlreadyExists)
	} else if !errx.IsCode(err, simplify.CodeProfileNotFound) {
		return nil, err
	}

	cfg.Normalize()
	now := time.Now()
	profile := simplify.Profile{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      name,
		Config:    cfg,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile updates the profile currently stored under name, allowing
// a rename as long as the new name is free.
func (s *Service) UpdateProfile(ctx context.Context, ownerID, name, newName string, cfg simplify.Config) (*simplify.Profile, error) {
	profile, err := s.profiles.FindByName(ctx, ownerID, name)
	if err != nil {
		return nil, err
	}

	if profile.Name != newName {
		if _, err := s.profiles.FindByName(ctx, ownerID, newName); err == nil {
			return nil, simplify.ErrRegistry.NewWithMessage(simplify.CodeProfileAlreadyExists,
				"A profile with the name '"+newName+"' already exists")
		} else if !errx.IsCode(err, simplify.CodeProfileNotFound) {
			return nil, err
		}
	}

	cfg.Normalize()
	profile.Name = newName
	profile.Config = cfg
	profile.UpdatedAt = time.Now()

	if err := s.profiles.Update(ctx, *profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// DeleteProfile removes a profile unless website overrides still reference
// it; the error then lists the referencing domains.
func (s *Service) DeleteProfile(ctx context.Context, ownerID, name string) error {
	profile, err := s.profiles.FindByName(ctx, ownerID, name)
	if err != nil {
		return err
	}

	referencing, err := s.overrides.ListByProfileID(ctx, ownerID, profile.ID)
	if err != nil {
		return err
	}
	if len(referencing) > 0 {
		domains := make([]string, len(referencing))
		for i, o := range referencing {
			domains[i] = o.Domain
		}
		return simplify.ErrRegistry.NewWithMessage(simplify.CodeProfileInUse,
			"Profile is in use by the following website overrides: "+strings.Join(domains, ", "))
	}

	return s.profiles.Delete(ctx, ownerID, name)
}

// ============================================================================
// Website Overrides
// ============================================================================

// ListOverrides returns all website overrides of an owner.
func (s *Service) ListOverrides(ctx context.Context, ownerID string) ([]simplify.WebsiteOverride, error) {
	return s.overrides.ListByOwner(ctx, ownerID)
}

// GetOverride returns the override for a domain, which is normalized first.
func (s *Service) GetOverride(ctx context.Context, ownerID, domain string) (*simplify.WebsiteOverride, error) {
	return s.overrides.FindByDomain(ctx, ownerID, simplify.NormalizeDomain(domain))
}

// CreateOverride stores a new override for a normalized domain. A base
// profile, when given, must exist and belong to the owner.
func (s *Service) CreateOverride(ctx context.Context, ownerID, domain string, profileID *string, cfg simplify.Config) (*simplify.WebsiteOverride, error) {
	normalized := simplify.NormalizeDomain(domain)

	if _, err := s.overrides.FindByDomain(ctx, ownerID, normalized); err == nil {
		return nil, simplify.ErrRegistry.New(simplify.CodeOverrideAlreadyExists)
	} else if !errx.IsCode(err, simplify.CodeOverrideNotFound) {
		return nil, err
	}

	if err := s.checkBaseProfile(ctx, ownerID, profileID); err != nil {
		return nil, err
	}

	cfg.Normalize()
	now := time.Now()
	override := simplify.WebsiteOverride{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Domain:    normalized,
		ProfileID: profileID,
		Config:    cfg,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.overrides.Create(ctx, override); err != nil {
		return nil, err
	}
	return &override, nil
}

// UpdateOverride updates the override stored under domain, allowing the
// domain itself to change when the new one is free.
func (s *Service) UpdateOverride(ctx context.Context, ownerID, domain, newDomain string, profileID *string, cfg simplify.Config) (*simplify.WebsiteOverride, error) {
	override, err := s.overrides.FindByDomain(ctx, ownerID, simplify.NormalizeDomain(domain))
	if err != nil {
		return nil, err
	}

	normalized := simplify.NormalizeDomain(newDomain)
	if override.Domain != normalized {
		if _, err := s.overrides.FindByDomain(ctx, ownerID, normalized); err == nil {
			return nil, simplify.ErrRegistry.NewWithMessage(simplify.CodeOverrideAlreadyExists,
				"A website override with the domain '"+normalized+"' already exists")
		} else if !errx.IsCode(err, simplify.CodeOverrideNotFound) {
			return nil, err
		}
	}

	if err := s.checkBaseProfile(ctx, ownerID, profileID); err != nil {
		return nil, err
	}

	cfg.Normalize()
	override.Domain = normalized
	override.ProfileID = profileID
	override.Config = cfg
	override.UpdatedAt = time.Now()

	if err := s.overrides.Update(ctx, *override); err != nil {
		return nil, err
	}
	return override, nil
}

// DeleteOverride removes the override for a domain. Deleting a domain that
// has no override is not an error.
func (s *Service) DeleteOverride(ctx context.Context, ownerID, domain string) error {
	return s.overrides.Delete(ctx, ownerID, simplify.NormalizeDomain(domain))
}

// checkBaseProfile validates an optional base profile reference.
func (s *Service) checkBaseProfile(ctx context.Context, ownerID string, profileID *string) error {
	if profileID == nil || *profileID == "" {
		return nil
	}
	_, err := s.profiles.FindByID(ctx, ownerID, *profileID)
	return err
}
