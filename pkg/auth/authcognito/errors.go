package authcognito

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"

	"github.com/joopert/translate-app/pkg/auth"
	"github.com/joopert/translate-app/pkg/errx"
)

// errMissingAuthResult covers responses where the provider reports success
// but returns no token set.
var errMissingAuthResult = errors.New("cognito returned no authentication result")

// Each operation gets its own translation point so the provider's exception
// types map to the narrowest error the caller can act on. Anything a switch
// does not recognize becomes an internal error with a correlation id.

func translateAuthenticate(err error) error {
	var notAuthorized *types.NotAuthorizedException
	if errors.As(err, &notAuthorized) {
		return auth.ErrInvalidCredentials().WithCause(err)
	}
	return errx.InternalWithRef(err)
}

func translateRefresh(err error) error {
	return errx.InternalWithRef(err)
}

func translateLogout(err error) error {
	return auth.ErrRegistry.NewWithCause(auth.CodeLogoutRevokeToken, err)
}

func translateSetInitialPassword(err error) error {
	// No per-exception mappings yet; every failure surfaces uniformly.
	return errx.InternalWithRef(err)
}

func translateForgotPassword(err error) error {
	var (
		userNotFound  *types.UserNotFoundException
		limitExceeded *types.LimitExceededException
		tooMany       *types.TooManyRequestsException
	)
	switch {
	case errors.As(err, &userNotFound):
		return auth.ErrRegistry.NewWithCause(auth.CodeUserNotFound, err)
	case errors.As(err, &limitExceeded), errors.As(err, &tooMany):
		return auth.ErrRegistry.NewWithCause(auth.CodeForgotPasswordLimitExceeded, err)
	}
	return errx.InternalWithRef(err)
}

func translateConfirmForgotPassword(err error) error {
	var (
		codeMismatch    *types.CodeMismatchException
		expiredCode     *types.ExpiredCodeException
		invalidPassword *types.InvalidPasswordException
		limitExceeded   *types.LimitExceededException
		tooMany         *types.TooManyRequestsException
	)
	switch {
	case errors.As(err, &codeMismatch):
		return auth.ErrRegistry.NewWithCause(auth.CodeConfirmForgotPasswordCodeMismatch, err)
	case errors.As(err, &expiredCode):
		return auth.ErrRegistry.NewWithCause(auth.CodeConfirmForgotPasswordExpiredCode, err)
	case errors.As(err, &invalidPassword):
		return auth.ErrRegistry.NewWithCause(auth.CodeConfirmForgotPasswordInvalidPassword, err)
	case errors.As(err, &limitExceeded), errors.As(err, &tooMany):
		return auth.ErrRegistry.NewWithCause(auth.CodeConfirmForgotPasswordLimitExceeded, err)
	}
	return errx.InternalWithRef(err)
}

func translateChangePassword(err error) error {
	var (
		notAuthorized   *types.NotAuthorizedException
		invalidPassword *types.InvalidPasswordException
		limitExceeded   *types.LimitExceededException
		tooMany         *types.TooManyRequestsException
	)
	switch {
	case errors.As(err, &notAuthorized):
		return auth.ErrRegistry.NewWithCause(auth.CodeChangePasswordUnauthorized, err)
	case errors.As(err, &invalidPassword):
		return auth.ErrRegistry.NewWithCause(auth.CodeChangePasswordInvalidPassword, err)
	case errors.As(err, &limitExceeded), errors.As(err, &tooMany):
		return auth.ErrRegistry.NewWithCause(auth.CodeChangePasswordLimitExceeded, err)
	}
	return errx.InternalWithRef(err)
}

func translateSignUp(err error) error {
	var (
		usernameExists   *types.UsernameExistsException
		invalidPassword  *types.InvalidPasswordException
		invalidParameter *types.InvalidParameterException
		limitExceeded    *types.LimitExceededException
		tooMany          *types.TooManyRequestsException
	)
	switch {
	case errors.As(err, &usernameExists):
		return auth.ErrRegistry.NewWithCause(auth.CodeSignUpUsernameExists, err)
	case errors.As(err, &invalidPassword):
		return auth.ErrRegistry.NewWithCause(auth.CodeSignUpInvalidPassword, err)
	case errors.As(err, &invalidParameter):
		return auth.ErrRegistry.NewWithCause(auth.CodeSignUpInvalidParameter, err)
	case errors.As(err, &limitExceeded), errors.As(err, &tooMany):
		return auth.ErrRegistry.NewWithCause(auth.CodeSignUpLimitExceeded, err)
	}
	return errx.InternalWithRef(err)
}

func translateConfirmSignUp(err error) error {
	var (
		codeMismatch  *types.CodeMismatchException
		expiredCode   *types.ExpiredCodeException
		notAuthorized *types.NotAuthorizedException
		limitExceeded *types.LimitExceededException
		tooMany       *types.TooManyRequestsException
	)
	switch {
	case errors.As(err, &codeMismatch):
		return auth.ErrRegistry.NewWithCause(auth.CodeConfirmSignUpMismatch, err)
	case errors.As(err, &expiredCode):
		return auth.ErrRegistry.NewWithCause(auth.CodeConfirmSignUpExpired, err)
	case errors.As(err, &notAuthorized):
		return auth.ErrRegistry.NewWithCause(auth.CodeConfirmSignUpNotAllowed, err)
	case errors.As(err, &limitExceeded), errors.As(err, &tooMany):
		return auth.ErrRegistry.NewWithCause(auth.CodeConfirmSignUpLimit, err)
	}
	return errx.InternalWithRef(err)
}

func translateResendConfirmationCode(err error) error {
	var (
		userNotFound  *types.UserNotFoundException
		limitExceeded *types.LimitExceededException
		tooMany       *types.TooManyRequestsException
	)
	switch {
	case errors.As(err, &userNotFound):
		return auth.ErrRegistry.NewWithCause(auth.CodeUserNotFound, err)
	case errors.As(err, &limitExceeded), errors.As(err, &tooMany):
		return auth.ErrRegistry.NewWithCause(auth.CodeResendConfirmationLimit, err)
	}
	return errx.InternalWithRef(err)
}

func translateGetUser(err error) error {
	var notAuthorized *types.NotAuthorizedException
	if errors.As(err, &notAuthorized) {
		return auth.ErrInvalidToken().WithCause(err)
	}
	return errx.InternalWithRef(err)
}

func translateAdminGetUser(err error) error {
	var userNotFound *types.UserNotFoundException
	if errors.As(err, &userNotFound) {
		return auth.ErrRegistry.NewWithCause(auth.CodeUserNotFound, err)
	}
	return errx.InternalWithRef(err)
}
