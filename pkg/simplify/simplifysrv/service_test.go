package simplifysrv_test

import (
	"context"
	"strings"
	"testing"

	"github.com/joopert/translate-app/pkg/errx"
	"github.com/joopert/translate-app/pkg/simplify"
	"github.com/joopert/translate-app/pkg/simplify/simplifysrv"
)

// --- In-memory repositories ---

type memProfiles struct {
	byID map[string]simplify.Profile
}

func newMemProfiles() *memProfiles {
	return &memProfiles{byID: map[string]simplify.Profile{}}
}

func (m *memProfiles) Create(_ context.Context, p simplify.Profile) error {
	m.byID[p.ID] = p
	return nil
}

func (m *memProfiles) Update(_ context.Context, p simplify.Profile) error {
	m.byID[p.ID] = p
	return nil
}

func (m *memProfiles) Delete(_ context.Context, ownerID, name string) error {
	for id, p := range m.byID {
		if p.OwnerID == ownerID && p.Name == name {
			delete(m.byID, id)
			return nil
		}
	}
	return simplify.ErrRegistry.New(simplify.CodeProfileNotFound)
}

func (m *memProfiles) FindByName(_ context.Context, ownerID, name string) (*simplify.Profile, error) {
	for _, p := range m.byID {
		if p.OwnerID == ownerID && p.Name == name {
			found := p
			return &found, nil
		}
	}
	return nil, simplify.ErrRegistry.New(simplify.CodeProfileNotFound)
}

func (m *memProfiles) FindByID(_ context.Context, ownerID, id string) (*simplify.Profile, error) {
	if p, ok := m.byID[id]; ok && p.OwnerID == ownerID {
		return &p, nil
	}
	return nil, simplify.ErrRegistry.New(simplify.CodeProfileNotFound)
}

func (m *memProfiles) ListByOwner(_ context.Context, ownerID string) ([]simplify.Profile, error) {
	var out []simplify.Profile
	for _, p := range m.byID {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

type memOverrides struct {
	byID map[string]simplify.WebsiteOverride
}

func newMemOverrides() *memOverrides {
	return &memOverrides{byID: map[string]simplify.WebsiteOverride{}}
}

func (m *memOverrides) Create(_ context.Context, o simplify.WebsiteOverride) error {
	m.byID[o.ID] = o
	return nil
}

func (m *memOverrides) Update(_ context.Context, o simplify.WebsiteOverride) error {
	m.byID[o.ID] = o
	return nil
}

func (m *memOverrides) Delete(_ context.Context, ownerID, domain string) error {
	for id, o := range m.byID {
		if o.OwnerID == ownerID && o.Domain == domain {
			delete(m.byID, id)
		}
	}
	return nil
}

func (m *memOverrides) FindByDomain(_ context.Context, ownerID, domain string) (*simplify.WebsiteOverride, error) {
	for _, o := range m.byID {
		if o.OwnerID == ownerID && o.Domain == domain {
			found := o
			return &found, nil
		}
	}
	return nil, simplify.ErrRegistry.New(simplify.CodeOverrideNotFound)
}

func (m *memOverrides) ListByOwner(_ context.Context, ownerID string) ([]simplify.WebsiteOverride, error) {
	var out []simplify.WebsiteOverride
	for _, o := range m.byID {
		if o.OwnerID == ownerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOverrides) ListByProfileID(_ context.Context, ownerID, profileID string) ([]simplify.WebsiteOverride, error) {
	var out []simplify.WebsiteOverride
	for _, o := range m.byID {
		if o.OwnerID == ownerID && o.ProfileID != nil && *o.ProfileID == profileID {
			out = append(out, o)
		}
	}
	return out, nil
}

func newTestService() *simplifysrv.Service {
	return simplifysrv.NewService(newMemProfiles(), newMemOverrides())
}

const owner = "owner-1"

func strPtr(s string) *string { return &s }

// --- Profiles ---

func TestCreateProfile_DuplicateName(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.CreateProfile(ctx, owner, "work", simplify.Config{}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := svc.CreateProfile(ctx, owner, "work", simplify.Config{})
	if !errx.IsCode(err, simplify.CodeProfileAlreadyExists) {
		t.Fatalf("expected SIMPLIFY_PROFILE_ALREADY_EXISTS, got %v", err)
	}
}

func TestCreateProfile_SameNameDifferentOwner(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.CreateProfile(ctx, "owner-a", "work", simplify.Config{}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.CreateProfile(ctx, "owner-b", "work", simplify.Config{}); err != nil {
		t.Fatalf("names are only unique per owner: %v", err)
	}
}

func TestCreateProfile_NormalizesConfig(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	cfg := simplify.Config{Background: strPtr(""), Purpose: strPtr("studying")}
	profile, err := svc.CreateProfile(ctx, owner, "study", cfg)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if profile.Config.Background != nil {
		t.Fatal("empty background should be stored as unset")
	}
	if profile.Config.Purpose == nil || *profile.Config.Purpose != "studying" {
		t.Fatalf("purpose lost: %+v", profile.Config)
	}
}

func TestUpdateProfile_RenameConflict(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.CreateProfile(ctx, owner, "work", simplify.Config{}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.CreateProfile(ctx, owner, "home", simplify.Config{}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err := svc.UpdateProfile(ctx, owner, "home", "work", simplify.Config{})
	if !errx.IsCode(err, simplify.CodeProfileAlreadyExists) {
		t.Fatalf("expected rename conflict, got %v", err)
	}

	var e *errx.Error
	if !errx.As(err, &e) || !strings.Contains(e.Message, "'work'") {
		t.Fatalf("conflict message should name the taken name, got %v", err)
	}
}

func TestUpdateProfile_KeepingNameIsNoConflict(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.CreateProfile(ctx, owner, "work", simplify.Config{}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.UpdateProfile(ctx, owner, "work", "work", simplify.Config{Background: strPtr("engineer")})
	if err != nil {
		t.Fatalf("update under same name failed: %v", err)
	}
	if updated.Config.Background == nil || *updated.Config.Background != "engineer" {
		t.Fatalf("config not updated: %+v", updated.Config)
	}
}

func TestDeleteProfile_GuardListsReferencingDomains(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	profile, err := svc.CreateProfile(ctx, owner, "work", simplify.Config{})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.CreateOverride(ctx, owner, "docs.example.com", &profile.ID, simplify.Config{}); err != nil {
		t.Fatalf("create override failed: %v", err)
	}
	if _, err := svc.CreateOverride(ctx, owner, "blog.example.com", &profile.ID, simplify.Config{}); err != nil {
		t.Fatalf("create override failed: %v", err)
	}

	err = svc.DeleteProfile(ctx, owner, "work")
	if !errx.IsCode(err, simplify.CodeProfileInUse) {
		t.Fatalf("expected SIMPLIFY_PROFILE_IN_USE, got %v", err)
	}
	var e *errx.Error
	if !errx.As(err, &e) ||
		!strings.Contains(e.Message, "docs.example.com") ||
		!strings.Contains(e.Message, "blog.example.com") {
		t.Fatalf("guard should list the referencing domains, got %v", err)
	}
}

func TestDeleteProfile_Unreferenced(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.CreateProfile(ctx, owner, "work", simplify.Config{}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.DeleteProfile(ctx, owner, "work"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.GetProfile(ctx, owner, "work"); !errx.IsCode(err, simplify.CodeProfileNotFound) {
		t.Fatalf("profile should be gone, got %v", err)
	}
}

// --- Website overrides ---

func TestCreateOverride_NormalizesDomain(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	override, err := svc.CreateOverride(ctx, owner, "https://www.example.com/some/page", nil, simplify.Config{})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if override.Domain != "example.com" {
		t.Fatalf("domain not normalized: %q", override.Domain)
	}

	// Lookup through a differently shaped URL hits the same record.
	got, err := svc.GetOverride(ctx, owner, "example.com/other")
	if err != nil || got.ID != override.ID {
		t.Fatalf("lookup by equivalent domain failed: %v", err)
	}
}

func TestCreateOverride_DuplicateDomain(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.CreateOverride(ctx, owner, "example.com", nil, simplify.Config{}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	_, err := svc.CreateOverride(ctx, owner, "www.example.com", nil, simplify.Config{})
	if !errx.IsCode(err, simplify.CodeOverrideAlreadyExists) {
		t.Fatalf("expected SIMPLIFY_OVERRIDE_ALREADY_EXISTS, got %v", err)
	}
}

func TestCreateOverride_UnknownBaseProfile(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.CreateOverride(ctx, owner, "example.com", strPtr("no-such-profile"), simplify.Config{})
	if !errx.IsCode(err, simplify.CodeProfileNotFound) {
		t.Fatalf("expected SIMPLIFY_PROFILE_NOT_FOUND, got %v", err)
	}
}

func TestCreateOverride_EmptyProfileIDMeansNone(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.CreateOverride(ctx, owner, "example.com", strPtr(""), simplify.Config{}); err != nil {
		t.Fatalf("empty profile id should not be validated: %v", err)
	}
}

func TestDeleteOverride_Idempotent(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if err := svc.DeleteOverride(ctx, owner, "never-created.example.com"); err != nil {
		t.Fatalf("deleting a missing override must succeed, got %v", err)
	}
}
