// Package authcognito implements the identity provider port on top of an
// AWS Cognito user pool.
package authcognito

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"

	"github.com/joopert/translate-app/pkg/auth"
	"github.com/joopert/translate-app/pkg/config"
	"github.com/joopert/translate-app/pkg/logx"
)

// callTimeout bounds every outbound call to the user pool.
const callTimeout = 10 * time.Second

// cognitoAPI is the subset of the Cognito SDK client the provider uses.
type cognitoAPI interface {
	InitiateAuth(ctx context.Context, params *cip.InitiateAuthInput, optFns ...func(*cip.Options)) (*cip.InitiateAuthOutput, error)
	RespondToAuthChallenge(ctx context.Context, params *cip.RespondToAuthChallengeInput, optFns ...func(*cip.Options)) (*cip.RespondToAuthChallengeOutput, error)
	RevokeToken(ctx context.Context, params *cip.RevokeTokenInput, optFns ...func(*cip.Options)) (*cip.RevokeTokenOutput, error)
	GlobalSignOut(ctx context.Context, params *cip.GlobalSignOutInput, optFns ...func(*cip.Options)) (*cip.GlobalSignOutOutput, error)
	ForgotPassword(ctx context.Context, params *cip.ForgotPasswordInput, optFns ...func(*cip.Options)) (*cip.ForgotPasswordOutput, error)
	ConfirmForgotPassword(ctx context.Context, params *cip.ConfirmForgotPasswordInput, optFns ...func(*cip.Options)) (*cip.ConfirmForgotPasswordOutput, error)
	ChangePassword(ctx context.Context, params *cip.ChangePasswordInput, optFns ...func(*cip.Options)) (*cip.ChangePasswordOutput, error)
	SignUp(ctx context.Context, params *cip.SignUpInput, optFns ...func(*cip.Options)) (*cip.SignUpOutput, error)
	ConfirmSignUp(ctx context.Context, params *cip.ConfirmSignUpInput, optFns ...func(*cip.Options)) (*cip.ConfirmSignUpOutput, error)
	ResendConfirmationCode(ctx context.Context, params *cip.ResendConfirmationCodeInput, optFns ...func(*cip.Options)) (*cip.ResendConfirmationCodeOutput, error)
	GetUser(ctx context.Context, params *cip.GetUserInput, optFns ...func(*cip.Options)) (*cip.GetUserOutput, error)
	AdminGetUser(ctx context.Context, params *cip.AdminGetUserInput, optFns ...func(*cip.Options)) (*cip.AdminGetUserOutput, error)
}

// Client implements auth.IdentityProvider against a Cognito user pool.
type Client struct {
	api        cognitoAPI
	clientID   string
	userPoolID string
}

// New builds the provider client from an AWS config and pool settings.
func New(awsCfg aws.Config, cfg config.CognitoConfig) *Client {
	return &Client{
		api:        cip.NewFromConfig(awsCfg),
		clientID:   cfg.ClientID,
		userPoolID: cfg.UserPoolID,
	}
}

// ============================================================================
// Session Lifecycle
// ============================================================================

func (c *Client) InitiatePasswordAuth(ctx context.Context, email, password string) (*auth.AuthResult, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	out, err := c.api.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(c.clientID),
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	})
	if err != nil {
		return nil, translateAuthenticate(err)
	}

	if out.ChallengeName == types.ChallengeNameTypeNewPasswordRequired {
		return &auth.AuthResult{
			Challenge: &auth.Challenge{
				Name:    string(out.ChallengeName),
				Session: aws.ToString(out.Session),
			},
		}, nil
	}
	if out.AuthenticationResult == nil {
		return nil, translateAuthenticate(errMissingAuthResult)
	}
	return &auth.AuthResult{Tokens: tokensFromResult(out.AuthenticationResult)}, nil
}

func (c *Client) RefreshTokens(ctx context.Context, refreshToken string) (*auth.Tokens, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	out, err := c.api.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeRefreshTokenAuth,
		ClientId: aws.String(c.clientID),
		AuthParameters: map[string]string{
			"REFRESH_TOKEN": refreshToken,
		},
	})
	if err != nil {
		return nil, translateRefresh(err)
	}
	if out.AuthenticationResult == nil {
		return nil, translateRefresh(errMissingAuthResult)
	}
	return tokensFromResult(out.AuthenticationResult), nil
}

func (c *Client) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	_, err := c.api.RevokeToken(ctx, &cip.RevokeTokenInput{
		ClientId: aws.String(c.clientID),
		Token:    aws.String(refreshToken),
	})
	if err != nil {
		return translateLogout(err)
	}
	return nil
}

func (c *Client) GlobalSignOut(ctx context.Context, accessToken string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	_, err := c.api.GlobalSignOut(ctx, &cip.GlobalSignOutInput{
		AccessToken: aws.String(accessToken),
	})
	if err != nil {
		return translateLogout(err)
	}
	return nil
}

func (c *Client) CompleteNewPasswordChallenge(ctx context.Context, email, newPassword, session string) (*auth.Tokens, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	out, err := c.api.RespondToAuthChallenge(ctx, &cip.RespondToAuthChallengeInput{
		ChallengeName: types.ChallengeNameTypeNewPasswordRequired,
		ClientId:      aws.String(c.clientID),
		Session:       aws.String(session),
		ChallengeResponses: map[string]string{
			"USERNAME":     email,
			"NEW_PASSWORD": newPassword,
		},
	})
	if err != nil {
		return nil, translateSetInitialPassword(err)
	}
	if out.AuthenticationResult == nil {
		return nil, translateSetInitialPassword(errMissingAuthResult)
	}
	return tokensFromResult(out.AuthenticationResult), nil
}

// ============================================================================
// Password Flows
// ============================================================================

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	_, err := c.api.ForgotPassword(ctx, &cip.ForgotPasswordInput{
		ClientId: aws.String(c.clientID),
		Username: aws.String(email),
	})
	if err != nil {
		return translateForgotPassword(err)
	}
	return nil
}

func (c *Client) ConfirmForgotPassword(ctx context.Context, email, confirmationCode, newPassword string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	_, err := c.api.ConfirmForgotPassword(ctx, &cip.ConfirmForgotPasswordInput{
		ClientId:         aws.String(c.clientID),
		Username:         aws.String(email),
		ConfirmationCode: aws.String(confirmationCode),
		Password:         aws.String(newPassword),
	})
	if err != nil {
		return translateConfirmForgotPassword(err)
	}
	return nil
}

func (c *Client) ChangePassword(ctx context.Context, accessToken, oldPassword, newPassword string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	_, err := c.api.ChangePassword(ctx, &cip.ChangePasswordInput{
		AccessToken:      aws.String(accessToken),
		PreviousPassword: aws.String(oldPassword),
		ProposedPassword: aws.String(newPassword),
	})
	if err != nil {
		return translateChangePassword(err)
	}
	return nil
}

// ============================================================================
// Registration
// ============================================================================

func (c *Client) SignUp(ctx context.Context, email, password string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	out, err := c.api.SignUp(ctx, &cip.SignUpInput{
		ClientId: aws.String(c.clientID),
		Username: aws.String(email),
		Password: aws.String(password),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
		},
	})
	if err != nil {
		return "", translateSignUp(err)
	}
	logx.WithField("user_id", aws.ToString(out.UserSub)).Info("User signed up")
	return aws.ToString(out.UserSub), nil
}

func (c *Client) ConfirmSignUp(ctx context.Context, email, confirmationCode string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	_, err := c.api.ConfirmSignUp(ctx, &cip.ConfirmSignUpInput{
		ClientId:         aws.String(c.clientID),
		Username:         aws.String(email),
		ConfirmationCode: aws.String(confirmationCode),
	})
	if err != nil {
		return translateConfirmSignUp(err)
	}
	return nil
}

func (c *Client) ResendConfirmationCode(ctx context.Context, email string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	_, err := c.api.ResendConfirmationCode(ctx, &cip.ResendConfirmationCodeInput{
		ClientId: aws.String(c.clientID),
		Username: aws.String(email),
	})
	if err != nil {
		return translateResendConfirmationCode(err)
	}
	return nil
}

// ============================================================================
// User Lookup
// ============================================================================

func (c *Client) GetUser(ctx context.Context, accessToken string) (*auth.ProviderUser, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	out, err := c.api.GetUser(ctx, &cip.GetUserInput{
		AccessToken: aws.String(accessToken),
	})
	if err != nil {
		return nil, translateGetUser(err)
	}
	return userFromAttributes(aws.ToString(out.Username), out.UserAttributes), nil
}

func (c *Client) AdminGetUser(ctx context.Context, email string) (*auth.ProviderUser, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	out, err := c.api.AdminGetUser(ctx, &cip.AdminGetUserInput{
		UserPoolId: aws.String(c.userPoolID),
		Username:   aws.String(email),
	})
	if err != nil {
		return nil, translateAdminGetUser(err)
	}
	return userFromAttributes(aws.ToString(out.Username), out.UserAttributes), nil
}

// ============================================================================
// Mapping Helpers
// ============================================================================

func tokensFromResult(result *types.AuthenticationResultType) *auth.Tokens {
	return &auth.Tokens{
		AccessToken:  aws.ToString(result.AccessToken),
		IDToken:      aws.ToString(result.IdToken),
		RefreshToken: aws.ToString(result.RefreshToken),
		ExpiresIn:    result.ExpiresIn,
	}
}

func userFromAttributes(username string, attrs []types.AttributeType) *auth.ProviderUser {
	user := &auth.ProviderUser{Username: username}
	for _, attr := range attrs {
		value := aws.ToString(attr.Value)
		switch aws.ToString(attr.Name) {
		case "sub":
			user.ID = value
		case "email":
			user.Email = value
		case "email_verified":
			user.EmailVerified = value == "true"
		case "name":
			user.Name = value
		case "given_name":
			user.GivenName = value
		case "family_name":
			user.FamilyName = value
		case "picture":
			user.Picture = value
		case "phone_number":
			user.PhoneNumber = value
		case "phone_number_verified":
			user.PhoneVerified = value == "true"
		}
	}
	return user
}
