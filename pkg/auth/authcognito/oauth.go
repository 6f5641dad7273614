package authcognito

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/joopert/translate-app/pkg/auth"
	"github.com/joopert/translate-app/pkg/config"
	"github.com/joopert/translate-app/pkg/errx"
)

// OAuthClient drives the hosted-UI authorization code flow, used for
// Google sign-in. Token exchange talks to the pool's OAuth endpoints
// directly; the SDK does not cover them.
type OAuthClient struct {
	httpClient *http.Client
	cfg        config.CognitoConfig
}

// NewOAuthClient builds the hosted-UI OAuth client.
func NewOAuthClient(cfg config.CognitoConfig) *OAuthClient {
	return &OAuthClient{
		httpClient: &http.Client{Timeout: callTimeout},
		cfg:        cfg,
	}
}

// AuthorizeURL returns the hosted-UI URL that starts a Google sign-in.
func (o *OAuthClient) AuthorizeURL(state string) string {
	query := url.Values{
		"client_id":         {o.cfg.ClientID},
		"response_type":     {"code"},
		"scope":             {"openid email profile"},
		"redirect_uri":      {o.cfg.CallbackURL},
		"identity_provider": {"Google"},
		"state":             {state},
	}
	return o.cfg.AuthURL() + "?" + query.Encode()
}

// ExchangeCode trades the callback's authorization code for tokens.
func (o *OAuthClient) ExchangeCode(ctx context.Context, code string) (*auth.Tokens, error) {
	form := url.Values{
		"grant_type":   {"authorization_code"},
		"client_id":    {o.cfg.ClientID},
		"code":         {code},
		"redirect_uri": {o.cfg.CallbackURL},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.cfg.TokenURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errx.InternalWithRef(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, errx.InternalWithRef(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errx.InternalWithRef(err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, auth.ErrRegistry.NewWithCause(auth.CodeOAuthExchangeFailed,
			fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, truncate(body, 200)))
	}

	var payload struct {
		AccessToken  string `json:"access_token"`
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int32  `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errx.InternalWithRef(err)
	}

	return &auth.Tokens{
		AccessToken:  payload.AccessToken,
		IDToken:      payload.IDToken,
		RefreshToken: payload.RefreshToken,
		ExpiresIn:    payload.ExpiresIn,
	}, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

var _ auth.CodeExchanger = (*OAuthClient)(nil)
