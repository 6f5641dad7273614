// Package simplify holds the content-personalization domain: reading
// configs, named profiles and per-website overrides.
package simplify

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joopert/translate-app/pkg/errx"
)

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("SIMPLIFY")

var (
	CodeProfileAlreadyExists  = ErrRegistry.Register("PROFILE_ALREADY_EXISTS", errx.CategoryConflict, "name", "Profile already exists")
	CodeProfileNotFound       = ErrRegistry.Register("PROFILE_NOT_FOUND", errx.CategoryNotFound, "name", "Profile not found")
	CodeProfileInUse          = ErrRegistry.Register("PROFILE_IN_USE", errx.CategoryConflict, "name", "Profile is in use by website overrides")
	CodeOverrideAlreadyExists = ErrRegistry.Register("OVERRIDE_ALREADY_EXISTS", errx.CategoryConflict, "domain", "Website override already exists")
	CodeOverrideNotFound      = ErrRegistry.Register("OVERRIDE_NOT_FOUND", errx.CategoryNotFound, "domain", "Website override not found")
)

// ============================================================================
// Domain Types
// ============================================================================

// FamiliarityLevel is the user's familiarity with the topic being read.
type FamiliarityLevel string

const (
	FamiliarityBeginner     FamiliarityLevel = "beginner"
	FamiliarityIntermediate FamiliarityLevel = "intermediate"
	FamiliarityAdvanced     FamiliarityLevel = "advanced"
)

// LearningStyle is the user's preferred way of having things explained.
// "no preference" is distinct from unset: overrides may explicitly select
// no preference on top of a base profile.
type LearningStyle string

const (
	LearningNoPreference LearningStyle = "no preference"
	LearningVisual       LearningStyle = "visual"
	LearningAnalogies    LearningStyle = "analogies"
)

// Config captures how content should be personalized. Every field is
// optional; nil means "not set".
type Config struct {
	Familiarity     *FamiliarityLevel `json:"familiarity,omitempty"`
	Background      *string           `json:"background,omitempty"`
	Context         *string           `json:"context,omitempty"`
	StrictAdherence *bool             `json:"strict_adherence,omitempty"`
	Summary         *bool             `json:"summary,omitempty"`
	Purpose         *string           `json:"purpose,omitempty"`
	LearningStyle   *LearningStyle    `json:"learning_style,omitempty"`
}

// Normalize treats empty free-text fields the same as unset.
func (c *Config) Normalize() {
	c.Background = emptyToNil(c.Background)
	c.Context = emptyToNil(c.Context)
	c.Purpose = emptyToNil(c.Purpose)
}

// Equal reports whether two configs request the same personalization.
func (c Config) Equal(other Config) bool {
	a, _ := json.Marshal(c)
	b, _ := json.Marshal(other)
	return string(a) == string(b)
}

// Value stores the config as JSONB.
func (c Config) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan reads the config back from JSONB.
func (c *Config) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	case nil:
		*c = Config{}
		return nil
	}
	return fmt.Errorf("cannot scan %T into simplify.Config", src)
}

// Profile is a named, reusable personalization config. Names are unique
// per owner.
type Profile struct {
	ID        string    `db:"id" json:"id"`
	OwnerID   string    `db:"owner_id" json:"-"`
	Name      string    `db:"name" json:"name"`
	Config    Config    `db:"config" json:"config"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// WebsiteOverride pins a config (optionally based on a profile) to one
// domain. Domains are stored normalized and are unique per owner.
type WebsiteOverride struct {
	ID        string    `db:"id" json:"id"`
	OwnerID   string    `db:"owner_id" json:"-"`
	Domain    string    `db:"domain" json:"domain"`
	ProfileID *string   `db:"profile_id" json:"profile_id,omitempty"`
	Config    Config    `db:"config" json:"config"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NormalizeDomain reduces a URL or hostname to its bare domain:
// "https://www.google.com/search" becomes "google.com". Input that cannot
// be parsed is returned unchanged.
func NormalizeDomain(raw string) string {
	if raw == "" {
		return raw
	}
	withScheme := raw
	if !strings.HasPrefix(withScheme, "http://") && !strings.HasPrefix(withScheme, "https://") {
		withScheme = "https://" + withScheme
	}
	parsed, err := url.Parse(withScheme)
	if err != nil || parsed.Hostname() == "" {
		return raw
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}

func emptyToNil(s *string) *string {
	if s != nil && *s == "" {
		return nil
	}
	return s
}
