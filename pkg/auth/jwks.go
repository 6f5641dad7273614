package auth

import (
	"context"
	"fmt"

	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
)

// JWKSKeyProvider serves signing keys from the identity provider's JWKS
// endpoint. The underlying jwk.Cache refreshes in the background, so key
// rotation is picked up without restarting the service.
type JWKSKeyProvider struct {
	cache *jwk.Cache
	url   string
}

// NewJWKSKeyProvider registers jwksURL with a background-refreshing cache.
// The context bounds the cache's lifetime; pass the process context.
func NewJWKSKeyProvider(ctx context.Context, jwksURL string) (*JWKSKeyProvider, error) {
	cache, err := jwk.NewCache(ctx, httprc.NewClient())
	if err != nil {
		return nil, fmt.Errorf("create jwks cache: %w", err)
	}
	if err := cache.Register(ctx, jwksURL); err != nil {
		return nil, fmt.Errorf("register jwks url %q: %w", jwksURL, err)
	}
	return &JWKSKeyProvider{cache: cache, url: jwksURL}, nil
}

// Key returns the raw public key for kid, fetching the JWKS on first use.
func (p *JWKSKeyProvider) Key(ctx context.Context, kid string) (any, error) {
	set, err := p.cache.Lookup(ctx, p.url)
	if err != nil {
		return nil, fmt.Errorf("lookup jwks: %w", err)
	}

	key, found := set.LookupKeyID(kid)
	if !found {
		return nil, fmt.Errorf("signing key %q not present in jwks", kid)
	}

	var raw any
	if err := jwk.Export(key, &raw); err != nil {
		return nil, fmt.Errorf("export signing key %q: %w", kid, err)
	}
	return raw, nil
}
