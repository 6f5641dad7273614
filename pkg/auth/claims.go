package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenUse distinguishes the two verifiable token kinds the provider issues.
type TokenUse string

const (
	TokenUseAccess TokenUse = "access"
	TokenUseID     TokenUse = "id"
)

// Claims is the full set of claims carried by provider-issued tokens.
// Access tokens fill the username/client_id/scope fields; identity tokens
// fill the profile fields. Everything is accessed through struct fields,
// never through map lookups.
type Claims struct {
	jwt.RegisteredClaims

	TokenUse string `json:"token_use"`

	// Access token claims
	Username string `json:"username,omitempty"`
	ClientID string `json:"client_id,omitempty"`
	Scope    string `json:"scope,omitempty"`

	// Identity token claims
	CognitoUsername string   `json:"cognito:username,omitempty"`
	Email           string   `json:"email,omitempty"`
	EmailVerified   bool     `json:"email_verified,omitempty"`
	Name            string   `json:"name,omitempty"`
	GivenName       string   `json:"given_name,omitempty"`
	FamilyName      string   `json:"family_name,omitempty"`
	Picture         string   `json:"picture,omitempty"`
	PhoneNumber     string   `json:"phone_number,omitempty"`
	PhoneVerified   bool     `json:"phone_number_verified,omitempty"`
	Groups          []string `json:"cognito:groups,omitempty"`
	AtHash          string   `json:"at_hash,omitempty"`

	AuthTime *jwt.NumericDate `json:"auth_time,omitempty"`
}

// PreferredUsername returns the username claim appropriate for the token kind.
func (c *Claims) PreferredUsername() string {
	if c.Username != "" {
		return c.Username
	}
	return c.CognitoUsername
}
