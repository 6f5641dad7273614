package auth

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates provider-issued JWTs. It is stateless: all state lives
// in the KeyProvider, so a single instance is shared across requests.
type Verifier struct {
	keys     KeyProvider
	issuer   string
	clientID string
}

// NewVerifier builds a Verifier for one issuer and app client.
func NewVerifier(keys KeyProvider, issuer, clientID string) *Verifier {
	return &Verifier{keys: keys, issuer: issuer, clientID: clientID}
}

// Verify checks signature and claims of token for the requested use.
// accessToken is only consulted when the token carries an at_hash claim
// (identity tokens), binding it to the access token it was issued with.
//
// Expired tokens fail with AUTH_TOKEN_EXPIRED; every other failure is
// AUTH_INVALID_TOKEN.
func (v *Verifier) Verify(ctx context.Context, token string, use TokenUse, accessToken string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if use != TokenUseAccess {
		// Access tokens carry the client id in client_id, not aud.
		opts = append(opts, jwt.WithAudience(v.clientID))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, v.keyFunc(ctx), opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired().WithCause(err)
		}
		return nil, ErrInvalidToken().WithCause(err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken()
	}

	if claims.TokenUse != string(use) {
		return nil, ErrInvalidToken().WithCause(
			fmt.Errorf("token_use is %q, want %q", claims.TokenUse, use))
	}
	if claims.AtHash != "" {
		if computeAtHash(accessToken) != claims.AtHash {
			return nil, ErrInvalidToken().WithCause(errors.New("at_hash does not match access token"))
		}
	}
	return claims, nil
}

func (v *Verifier) keyFunc(ctx context.Context) jwt.Keyfunc {
	return func(t *jwt.Token) (any, error) {
		kid, ok := t.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, errors.New("token has no kid header")
		}
		key, err := v.keys.Key(ctx, kid)
		if err != nil {
			return nil, fmt.Errorf("resolve signing key: %w", err)
		}
		return key, nil
	}
}

// computeAtHash derives the at_hash value for an access token under RS256:
// left half of the SHA-256 digest, base64url without padding.
func computeAtHash(accessToken string) string {
	sum := sha256.Sum256([]byte(accessToken))
	return base64.RawURLEncoding.EncodeToString(sum[:len(sum)/2])
}
