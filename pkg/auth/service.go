package auth

import (
	"context"

	"github.com/joopert/translate-app/pkg/errx"
	"github.com/joopert/translate-app/pkg/kernel"
	"github.com/joopert/translate-app/pkg/logx"
)

// Service owns the session lifecycle: sign-in, refresh, logout, the password
// flows and resolving the calling user from their tokens. It holds no
// per-request state; the identity provider is the source of truth.
type Service struct {
	provider IdentityProvider
	verifier *Verifier
}

// NewService builds the session service.
func NewService(provider IdentityProvider, verifier *Verifier) *Service {
	return &Service{provider: provider, verifier: verifier}
}

// Verifier exposes the underlying token verifier for middleware use.
func (s *Service) Verifier() *Verifier {
	return s.verifier
}

// ============================================================================
// Session Lifecycle
// ============================================================================

// Authenticate exchanges credentials for tokens, or a challenge when the
// provider requires a password change first.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	result, err := s.provider.InitiatePasswordAuth(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if result.Challenge != nil {
		logx.WithField("challenge", result.Challenge.Name).Info("Sign in returned a challenge")
	}
	return result, nil
}

// Refresh exchanges a refresh token for fresh access and id tokens.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	if refreshToken == "" {
		return nil, ErrNoRefreshToken()
	}
	return s.provider.RefreshTokens(ctx, refreshToken)
}

// LogoutSession revokes the session's refresh token. The access token stays
// technically valid until it expires; clearing cookies is the caller's job.
func (s *Service) LogoutSession(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return ErrNoRefreshToken()
	}
	return s.provider.RevokeRefreshToken(ctx, refreshToken)
}

// LogoutAllDevices signs the user out of every device via the provider.
func (s *Service) LogoutAllDevices(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return ErrNoToken()
	}
	return s.provider.GlobalSignOut(ctx, accessToken)
}

// ============================================================================
// Password Flows
// ============================================================================

// ForgotPassword starts a password reset. An unknown email is treated as
// success so the endpoint cannot be used to enumerate accounts.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	err := s.provider.ForgotPassword(ctx, email)
	if err != nil && errx.IsCode(err, CodeUserNotFound) {
		logx.Debug("Forgot password requested for unknown email")
		return nil
	}
	return err
}

// ConfirmForgotPassword completes a reset with the emailed code.
func (s *Service) ConfirmForgotPassword(ctx context.Context, email, confirmationCode, newPassword string) error {
	return s.provider.ConfirmForgotPassword(ctx, email, confirmationCode, newPassword)
}

// ChangePassword changes the password of an authenticated user.
func (s *Service) ChangePassword(ctx context.Context, accessToken, oldPassword, newPassword string) error {
	if accessToken == "" {
		return ErrNoToken()
	}
	return s.provider.ChangePassword(ctx, accessToken, oldPassword, newPassword)
}

// SetInitialPassword answers the NEW_PASSWORD_REQUIRED challenge for
// admin-created users and returns a full token set.
func (s *Service) SetInitialPassword(ctx context.Context, email, newPassword, session string) (*Tokens, error) {
	return s.provider.CompleteNewPasswordChallenge(ctx, email, newPassword, session)
}

// ============================================================================
// Registration
// ============================================================================

// SignUp registers a new account and returns the provider user id.
func (s *Service) SignUp(ctx context.Context, email, password string) (string, error) {
	return s.provider.SignUp(ctx, email, password)
}

// ConfirmSignUp confirms a registration with the emailed code.
func (s *Service) ConfirmSignUp(ctx context.Context, email, confirmationCode string) error {
	return s.provider.ConfirmSignUp(ctx, email, confirmationCode)
}

// ResendConfirmationCode re-sends the registration confirmation code.
func (s *Service) ResendConfirmationCode(ctx context.Context, email string) error {
	return s.provider.ResendConfirmationCode(ctx, email)
}

// LookupUser fetches a user's provider record by email.
func (s *Service) LookupUser(ctx context.Context, email string) (*ProviderUser, error) {
	return s.provider.AdminGetUser(ctx, email)
}

// ============================================================================
// Current User Resolution
// ============================================================================

// ResolveUser turns the caller's tokens into a CurrentUser.
//
// The access token is mandatory and always verified. When an id token is
// also present it is verified (bound to the access token through at_hash)
// and the profile is read from its claims, saving a provider round trip.
// Without one, the profile comes from the provider's GetUser call.
func (s *Service) ResolveUser(ctx context.Context, accessToken, idToken string) (*CurrentUser, error) {
	if accessToken == "" {
		return nil, ErrNoToken()
	}

	access, err := s.verifier.Verify(ctx, accessToken, TokenUseAccess, "")
	if err != nil {
		return nil, err
	}

	if idToken != "" {
		id, err := s.verifier.Verify(ctx, idToken, TokenUseID, accessToken)
		if err != nil {
			return nil, err
		}
		return &CurrentUser{
			ID:            kernel.NewUserID(access.Subject),
			Username:      id.PreferredUsername(),
			Email:         id.Email,
			EmailVerified: id.EmailVerified,
			Name:          id.Name,
			GivenName:     id.GivenName,
			FamilyName:    id.FamilyName,
			Picture:       id.Picture,
			PhoneNumber:   id.PhoneNumber,
			PhoneVerified: id.PhoneVerified,
			Groups:        id.Groups,
			AccessToken:   accessToken,
		}, nil
	}

	user, err := s.provider.GetUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return &CurrentUser{
		ID:            kernel.NewUserID(access.Subject),
		Username:      user.Username,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		Name:          user.Name,
		GivenName:     user.GivenName,
		FamilyName:    user.FamilyName,
		Picture:       user.Picture,
		PhoneNumber:   user.PhoneNumber,
		PhoneVerified: user.PhoneVerified,
		Groups:        user.Groups,
		AccessToken:   accessToken,
	}, nil
}
