package auth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/joopert/translate-app/pkg/auth"
	"github.com/joopert/translate-app/pkg/errx"
)

const (
	testIssuer   = "https://cognito-idp.eu-west-1.amazonaws.com/eu-west-1_TestPool"
	testClientID = "test-client-id"
	testKid      = "test-key-1"
)

// staticKeys is a KeyProvider backed by a fixed kid -> key map.
type staticKeys struct {
	keys map[string]any
}

func (s *staticKeys) Key(_ context.Context, kid string) (any, error) {
	key, ok := s.keys[kid]
	if !ok {
		return nil, fmt.Errorf("unknown kid %q", kid)
	}
	return key, nil
}

func newTestVerifier(t *testing.T) (*auth.Verifier, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	provider := &staticKeys{keys: map[string]any{testKid: &key.PublicKey}}
	return auth.NewVerifier(provider, testIssuer, testClientID), key
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims *auth.Claims, kid string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if kid != "" {
		token.Header["kid"] = kid
	}
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func accessClaims() *auth.Claims {
	now := time.Now()
	return &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Subject:   "user-sub-123",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		TokenUse: "access",
		Username: "alice",
		ClientID: testClientID,
		Scope:    "openid email profile",
	}
}

func idClaims(accessToken string) *auth.Claims {
	now := time.Now()
	sum := sha256.Sum256([]byte(accessToken))
	return &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Subject:   "user-sub-123",
			Audience:  jwt.ClaimStrings{testClientID},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		TokenUse:        "id",
		CognitoUsername: "alice",
		Email:           "alice@example.com",
		EmailVerified:   true,
		AtHash:          base64.RawURLEncoding.EncodeToString(sum[:16]),
	}
}

// --- Access token verification ---

func TestVerify_ValidAccessToken(t *testing.T) {
	verifier, key := newTestVerifier(t)
	token := signToken(t, key, accessClaims(), testKid)

	claims, err := verifier.Verify(context.Background(), token, auth.TokenUseAccess, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Username != "alice" || claims.Subject != "user-sub-123" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerify_TamperedSignature(t *testing.T) {
	verifier, key := newTestVerifier(t)
	token := signToken(t, key, accessClaims(), testKid)

	// Flip the first character of the signature segment. Unlike the final
	// character, whose low bits are base64 padding that decoders ignore,
	// every bit of a leading character contributes to the decoded bytes.
	sigStart := strings.LastIndex(token, ".") + 1
	flipped := "A"
	if token[sigStart] == 'A' {
		flipped = "B"
	}
	tampered := token[:sigStart] + flipped + token[sigStart+1:]

	_, err := verifier.Verify(context.Background(), tampered, auth.TokenUseAccess, "")
	if !errx.IsCode(err, auth.CodeInvalidToken) {
		t.Fatalf("expected AUTH_INVALID_TOKEN, got %v", err)
	}
}

func TestVerify_ExpiredToken(t *testing.T) {
	verifier, key := newTestVerifier(t)
	claims := accessClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	token := signToken(t, key, claims, testKid)

	_, err := verifier.Verify(context.Background(), token, auth.TokenUseAccess, "")
	if !errx.IsCode(err, auth.CodeTokenExpired) {
		t.Fatalf("expected AUTH_TOKEN_EXPIRED, got %v", err)
	}
}

func TestVerify_WrongIssuer(t *testing.T) {
	verifier, key := newTestVerifier(t)
	claims := accessClaims()
	claims.Issuer = "https://evil.example.com"
	token := signToken(t, key, claims, testKid)

	_, err := verifier.Verify(context.Background(), token, auth.TokenUseAccess, "")
	if !errx.IsCode(err, auth.CodeInvalidToken) {
		t.Fatalf("expected AUTH_INVALID_TOKEN, got %v", err)
	}
}

func TestVerify_MissingKid(t *testing.T) {
	verifier, key := newTestVerifier(t)
	token := signToken(t, key, accessClaims(), "")

	_, err := verifier.Verify(context.Background(), token, auth.TokenUseAccess, "")
	if !errx.IsCode(err, auth.CodeInvalidToken) {
		t.Fatalf("expected AUTH_INVALID_TOKEN, got %v", err)
	}
}

func TestVerify_UnknownKid(t *testing.T) {
	verifier, key := newTestVerifier(t)
	token := signToken(t, key, accessClaims(), "some-rotated-away-key")

	_, err := verifier.Verify(context.Background(), token, auth.TokenUseAccess, "")
	if !errx.IsCode(err, auth.CodeInvalidToken) {
		t.Fatalf("expected AUTH_INVALID_TOKEN, got %v", err)
	}
}

func TestVerify_MissingIssuedAtAccepted(t *testing.T) {
	// iat is validated when present but is not required.
	verifier, key := newTestVerifier(t)
	claims := accessClaims()
	claims.IssuedAt = nil
	token := signToken(t, key, claims, testKid)

	if _, err := verifier.Verify(context.Background(), token, auth.TokenUseAccess, ""); err != nil {
		t.Fatalf("token without iat should verify, got %v", err)
	}
}

func TestVerify_TokenUseMismatch(t *testing.T) {
	verifier, key := newTestVerifier(t)

	// An access token presented where an id token is expected. The audience
	// claim is present so only the token_use check can reject it.
	claims := accessClaims()
	claims.Audience = jwt.ClaimStrings{testClientID}
	token := signToken(t, key, claims, testKid)

	_, err := verifier.Verify(context.Background(), token, auth.TokenUseID, "")
	if !errx.IsCode(err, auth.CodeInvalidToken) {
		t.Fatalf("expected AUTH_INVALID_TOKEN, got %v", err)
	}
}

// --- Identity token verification ---

func TestVerify_ValidIDToken(t *testing.T) {
	verifier, key := newTestVerifier(t)
	accessToken := signToken(t, key, accessClaims(), testKid)
	idToken := signToken(t, key, idClaims(accessToken), testKid)

	claims, err := verifier.Verify(context.Background(), idToken, auth.TokenUseID, accessToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Email != "alice@example.com" || claims.PreferredUsername() != "alice" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerify_IDTokenWrongAudience(t *testing.T) {
	verifier, key := newTestVerifier(t)
	accessToken := signToken(t, key, accessClaims(), testKid)
	claims := idClaims(accessToken)
	claims.Audience = jwt.ClaimStrings{"some-other-client"}
	idToken := signToken(t, key, claims, testKid)

	_, err := verifier.Verify(context.Background(), idToken, auth.TokenUseID, accessToken)
	if !errx.IsCode(err, auth.CodeInvalidToken) {
		t.Fatalf("expected AUTH_INVALID_TOKEN, got %v", err)
	}
}

func TestVerify_AtHashMismatch(t *testing.T) {
	verifier, key := newTestVerifier(t)
	accessToken := signToken(t, key, accessClaims(), testKid)
	idToken := signToken(t, key, idClaims(accessToken), testKid)

	// Present the id token with a different access token than it was
	// issued alongside.
	otherClaims := accessClaims()
	otherClaims.Username = "mallory"
	otherAccess := signToken(t, key, otherClaims, testKid)

	_, err := verifier.Verify(context.Background(), idToken, auth.TokenUseID, otherAccess)
	if !errx.IsCode(err, auth.CodeInvalidToken) {
		t.Fatalf("expected AUTH_INVALID_TOKEN, got %v", err)
	}
}

func TestVerify_GarbageToken(t *testing.T) {
	verifier, _ := newTestVerifier(t)

	for _, token := range []string{"", "not-a-jwt", strings.Repeat("a.", 3)} {
		_, err := verifier.Verify(context.Background(), token, auth.TokenUseAccess, "")
		if !errx.IsCode(err, auth.CodeInvalidToken) {
			t.Fatalf("token %q: expected AUTH_INVALID_TOKEN, got %v", token, err)
		}
	}
}
