package auth

import (
	"github.com/joopert/translate-app/pkg/errx"
	"github.com/joopert/translate-app/pkg/kernel"
)

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("AUTH")

var (
	CodeNoToken            = ErrRegistry.Register("NO_TOKEN", errx.CategoryAuthentication, errx.FieldGeneral, "Not authenticated")
	CodeInvalidToken       = ErrRegistry.Register("INVALID_TOKEN", errx.CategoryAuthentication, errx.FieldGeneral, "Invalid token")
	CodeTokenExpired       = ErrRegistry.Register("TOKEN_EXPIRED", errx.CategoryAuthentication, errx.FieldGeneral, "Token has expired")
	CodeInvalidCredentials = ErrRegistry.Register("INVALID_CREDENTIALS", errx.CategoryAuthentication, errx.FieldGeneral, "Incorrect email or password")
	CodeNoRefreshToken     = ErrRegistry.Register("NO_REFRESH_TOKEN", errx.CategoryAuthentication, "refresh_token", "No refresh token provided")
	CodeUserNotFound       = ErrRegistry.Register("USER_NOT_FOUND", errx.CategoryNotFound, errx.FieldGeneral, "User not found")

	CodeLogoutRevokeToken = ErrRegistry.Register("LOGOUT_ERROR_REVOKE_TOKEN", errx.CategoryServerError, errx.FieldGeneral, "Could not log out, please try again")

	CodeForgotPasswordLimitExceeded = ErrRegistry.Register("FORGOT_PASSWORD_ERROR_LIMIT_EXCEEDED", errx.CategoryRateLimit, "email", "Attempt limit exceeded, please try again later")

	CodeConfirmForgotPasswordCodeMismatch    = ErrRegistry.Register("CONFIRM_FORGOT_PASSWORD_ERROR_CODE_MISMATCH", errx.CategoryValidation, "confirmation_code", "Invalid confirmation code")
	CodeConfirmForgotPasswordExpiredCode     = ErrRegistry.Register("CONFIRM_FORGOT_PASSWORD_ERROR_EXPIRED_CODE", errx.CategoryValidation, "confirmation_code", "Confirmation code has expired")
	CodeConfirmForgotPasswordInvalidPassword = ErrRegistry.Register("CONFIRM_FORGOT_PASSWORD_ERROR_INVALID_PASSWORD", errx.CategoryValidation, "new_password", "Password does not meet the requirements")
	CodeConfirmForgotPasswordLimitExceeded   = ErrRegistry.Register("CONFIRM_FORGOT_PASSWORD_ERROR_LIMIT_EXCEEDED", errx.CategoryRateLimit, errx.FieldGeneral, "Attempt limit exceeded, please try again later")

	CodeChangePasswordUnauthorized    = ErrRegistry.Register("CHANGE_PASSWORD_ERROR_UNAUTHORIZED", errx.CategoryAuthentication, "old_password", "Incorrect password")
	CodeChangePasswordInvalidPassword = ErrRegistry.Register("CHANGE_PASSWORD_ERROR_INVALID_PASSWORD", errx.CategoryValidation, "new_password", "Password does not meet the requirements")
	CodeChangePasswordLimitExceeded   = ErrRegistry.Register("CHANGE_PASSWORD_ERROR_LIMIT_EXCEEDED", errx.CategoryRateLimit, errx.FieldGeneral, "Attempt limit exceeded, please try again later")

	CodeSignUpUsernameExists    = ErrRegistry.Register("SIGN_UP_ERROR_USERNAME_EXISTS", errx.CategoryConflict, "email", "An account with this email already exists")
	CodeSignUpInvalidPassword   = ErrRegistry.Register("SIGN_UP_ERROR_INVALID_PASSWORD", errx.CategoryValidation, "password", "Password does not meet the requirements")
	CodeSignUpInvalidParameter  = ErrRegistry.Register("SIGN_UP_ERROR_INVALID_PARAMETER", errx.CategoryValidation, errx.FieldGeneral, "Invalid sign up parameters")
	CodeSignUpLimitExceeded     = ErrRegistry.Register("SIGN_UP_ERROR_LIMIT_EXCEEDED", errx.CategoryRateLimit, errx.FieldGeneral, "Attempt limit exceeded, please try again later")
	CodeConfirmSignUpMismatch   = ErrRegistry.Register("CONFIRM_SIGN_UP_ERROR_CODE_MISMATCH", errx.CategoryValidation, "confirmation_code", "Invalid confirmation code")
	CodeConfirmSignUpExpired    = ErrRegistry.Register("CONFIRM_SIGN_UP_ERROR_EXPIRED_CODE", errx.CategoryValidation, "confirmation_code", "Confirmation code has expired")
	CodeConfirmSignUpNotAllowed = ErrRegistry.Register("CONFIRM_SIGN_UP_ERROR_NOT_AUTHORIZED", errx.CategoryAuthentication, errx.FieldGeneral, "User cannot be confirmed")
	CodeConfirmSignUpLimit      = ErrRegistry.Register("CONFIRM_SIGN_UP_ERROR_LIMIT_EXCEEDED", errx.CategoryRateLimit, errx.FieldGeneral, "Attempt limit exceeded, please try again later")
	CodeResendConfirmationLimit = ErrRegistry.Register("RESEND_CONFIRMATION_CODE_ERROR_LIMIT_EXCEEDED", errx.CategoryRateLimit, errx.FieldGeneral, "Attempt limit exceeded, please try again later")

	CodeOAuthExchangeFailed = ErrRegistry.Register("OAUTH_EXCHANGE_FAILED", errx.CategoryAuthentication, errx.FieldGeneral, "Could not complete sign in")
	CodeOAuthStateMismatch  = ErrRegistry.Register("OAUTH_STATE_MISMATCH", errx.CategoryAuthentication, "state", "Sign in session is invalid or has expired")
)

// Helper constructors for the codes used across packages
func ErrNoToken() *errx.Error {
	return ErrRegistry.New(CodeNoToken).WithLocation(errx.LocationHeader)
}

func ErrInvalidToken() *errx.Error {
	return ErrRegistry.New(CodeInvalidToken)
}

func ErrTokenExpired() *errx.Error {
	return ErrRegistry.New(CodeTokenExpired)
}

func ErrInvalidCredentials() *errx.Error {
	return ErrRegistry.New(CodeInvalidCredentials).WithLocation(errx.LocationBody)
}

func ErrNoRefreshToken() *errx.Error {
	return ErrRegistry.New(CodeNoRefreshToken).WithLocation(errx.LocationCookies)
}

// ============================================================================
// Token Types
// ============================================================================

// Tokens is the set issued by the identity provider on sign-in and refresh.
// The refresh token is empty on refresh responses.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int32  `json:"expires_in"`
}

// Challenge is returned instead of tokens when the provider requires an
// additional step, e.g. NEW_PASSWORD_REQUIRED for admin-created users.
type Challenge struct {
	Name    string `json:"challenge"`
	Session string `json:"session"`
}

// AuthResult is the outcome of a password authentication attempt.
// Exactly one of Tokens or Challenge is set.
type AuthResult struct {
	Tokens    *Tokens    `json:"tokens,omitempty"`
	Challenge *Challenge `json:"challenge,omitempty"`
}

// ============================================================================
// User Types
// ============================================================================

// ProviderUser is the user record as the identity provider reports it.
type ProviderUser struct {
	ID            string   `json:"id"`
	Username      string   `json:"username"`
	Email         string   `json:"email"`
	EmailVerified bool     `json:"email_verified"`
	Name          string   `json:"name,omitempty"`
	GivenName     string   `json:"given_name,omitempty"`
	FamilyName    string   `json:"family_name,omitempty"`
	Picture       string   `json:"picture,omitempty"`
	PhoneNumber   string   `json:"phone_number,omitempty"`
	PhoneVerified bool     `json:"phone_number_verified,omitempty"`
	Groups        []string `json:"groups,omitempty"`
}

// CurrentUser is the authenticated caller attached to a request.
// The access token rides along for downstream provider calls but is
// never serialized.
type CurrentUser struct {
	ID            kernel.UserID `json:"id"`
	Username      string        `json:"username"`
	Email         string        `json:"email"`
	EmailVerified bool          `json:"email_verified"`
	Name          string        `json:"name,omitempty"`
	GivenName     string        `json:"given_name,omitempty"`
	FamilyName    string        `json:"family_name,omitempty"`
	Picture       string        `json:"picture,omitempty"`
	PhoneNumber   string        `json:"phone_number,omitempty"`
	PhoneVerified bool          `json:"phone_number_verified,omitempty"`
	Groups        []string      `json:"groups,omitempty"`

	AccessToken string `json:"-"`
}

// IsInGroup reports whether the user belongs to the given provider group.
func (u *CurrentUser) IsInGroup(group string) bool {
	for _, g := range u.Groups {
		if g == group {
			return true
		}
	}
	return false
}
