package auth

import "context"

// KeyProvider resolves a token signing key by its key id. The production
// implementation is a JWKS cache (see jwks.go); tests supply a static map.
type KeyProvider interface {
	// Key returns the public key for kid, typically an *rsa.PublicKey.
	Key(ctx context.Context, kid string) (any, error)
}

// IdentityProvider is the port to the upstream identity service.
// Implementations translate provider failures into errx errors at the
// narrowest possible point.
type IdentityProvider interface {
	// InitiatePasswordAuth exchanges email + password for tokens, or a
	// challenge when the provider demands an extra step.
	InitiatePasswordAuth(ctx context.Context, email, password string) (*AuthResult, error)

	// RefreshTokens exchanges a refresh token for fresh access and id tokens.
	RefreshTokens(ctx context.Context, refreshToken string) (*Tokens, error)

	// RevokeRefreshToken invalidates a single refresh token.
	RevokeRefreshToken(ctx context.Context, refreshToken string) error

	// GlobalSignOut invalidates every session of the calling user.
	GlobalSignOut(ctx context.Context, accessToken string) error

	// CompleteNewPasswordChallenge answers a NEW_PASSWORD_REQUIRED challenge.
	CompleteNewPasswordChallenge(ctx context.Context, email, newPassword, session string) (*Tokens, error)

	ForgotPassword(ctx context.Context, email string) error
	ConfirmForgotPassword(ctx context.Context, email, confirmationCode, newPassword string) error
	ChangePassword(ctx context.Context, accessToken, oldPassword, newPassword string) error

	// SignUp registers a new account and returns the provider user id.
	SignUp(ctx context.Context, email, password string) (string, error)
	ConfirmSignUp(ctx context.Context, email, confirmationCode string) error
	ResendConfirmationCode(ctx context.Context, email string) error

	// GetUser fetches the caller's attributes using their access token.
	GetUser(ctx context.Context, accessToken string) (*ProviderUser, error)

	// AdminGetUser fetches a user's attributes by email, with admin credentials.
	AdminGetUser(ctx context.Context, email string) (*ProviderUser, error)
}

// CodeExchanger turns an OAuth authorization code into provider tokens.
// Used by the hosted-UI callback (Google sign-in).
type CodeExchanger interface {
	ExchangeCode(ctx context.Context, code string) (*Tokens, error)
	AuthorizeURL(state string) string
}
