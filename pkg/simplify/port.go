package simplify

import "context"

// ProfileRepository persists personalization profiles.
type ProfileRepository interface {
	Create(ctx context.Context, profile Profile) error
	Update(ctx context.Context, profile Profile) error
	Delete(ctx context.Context, ownerID, name string) error
	FindByName(ctx context.Context, ownerID, name string) (*Profile, error)
	FindByID(ctx context.Context, ownerID, id string) (*Profile, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Profile, error)
}

// OverrideRepository persists website overrides.
type OverrideRepository interface {
	Create(ctx context.Context, override WebsiteOverride) error
	Update(ctx context.Context, override WebsiteOverride) error
	Delete(ctx context.Context, ownerID, domain string) error
	FindByDomain(ctx context.Context, ownerID, domain string) (*WebsiteOverride, error)
	ListByOwner(ctx context.Context, ownerID string) ([]WebsiteOverride, error)
	ListByProfileID(ctx context.Context, ownerID, profileID string) ([]WebsiteOverride, error)
}
