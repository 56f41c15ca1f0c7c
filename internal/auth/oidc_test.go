package auth

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-jose/go-jose/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "https://token.example.test"
	testAudience = "drift-server"
)

func signToken(t *testing.T, key *rsa.PrivateKey, claims map[string]any) string {
	t.Helper()
	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.RS256, Key: key}, (&jose.SignerOptions{}).WithType("JWT"))
	require.NoError(t, err)
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	jws, err := signer.Sign(payload)
	require.NoError(t, err)
	raw, err := jws.CompactSerialize()
	require.NoError(t, err)
	return raw
}

func baseClaims() map[string]any {
	now := time.Now()
	return map[string]any{
		"iss":        testIssuer,
		"aud":        testAudience,
		"sub":        "repo:acme/app:ref:refs/heads/main",
		"iat":        now.Unix(),
		"exp":        now.Add(5 * time.Minute).Unix(),
		"repository": "acme/app",
		"ref":        "refs/heads/main",
		"workflow":   "db-drift",
		"actor":      "octocat",
		"run_id":     "42",
	}
}

func testVerifier(t *testing.T, repositories ...string) (*OIDCVerifier, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	keySet := &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{key.Public()}}
	v := oidc.NewVerifier(testIssuer, keySet, &oidc.Config{ClientID: testAudience})
	return newOIDCVerifier(v, repositories), key
}

func TestOIDCVerifierAcceptsValidToken(t *testing.T) {
	v, key := testVerifier(t)

	claims, err := v.Verify(context.Background(), signToken(t, key, baseClaims()))
	require.NoError(t, err)
	assert.Equal(t, "repo:acme/app:ref:refs/heads/main", claims.Subject)
	assert.Equal(t, "acme/app", claims.Repository)
	assert.Equal(t, "db-drift", claims.Workflow)
	assert.Equal(t, "42", claims.RunID)
}

func TestOIDCVerifierRejects(t *testing.T) {
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(map[string]any)
		key    *rsa.PrivateKey
	}{
		{name: "wrong audience", mutate: func(c map[string]any) { c["aud"] = "someone-else" }},
		{name: "wrong issuer", mutate: func(c map[string]any) { c["iss"] = "https://evil.example.test" }},
		{name: "expired", mutate: func(c map[string]any) { c["exp"] = time.Now().Add(-time.Hour).Unix() }},
		{name: "foreign signing key", key: otherKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, key := testVerifier(t)
			claims := baseClaims()
			if tt.mutate != nil {
				tt.mutate(claims)
			}
			signWith := key
			if tt.key != nil {
				signWith = tt.key
			}

			_, err := v.Verify(context.Background(), signToken(t, signWith, claims))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnauthorized))
		})
	}
}

func TestOIDCVerifierRepositoryAllowList(t *testing.T) {
	v, key := testVerifier(t, "Acme/App")
	_, err := v.Verify(context.Background(), signToken(t, key, baseClaims()))
	require.NoError(t, err)

	v, key = testVerifier(t, "acme/infra")
	_, err = v.Verify(context.Background(), signToken(t, key, baseClaims()))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Contains(t, err.Error(), `repository "acme/app" not allowed`)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{header: "Bearer abc.def", token: "abc.def", ok: true},
		{header: "bearer   abc ", token: "abc", ok: true},
		{header: "Basic abc", ok: false},
		{header: "Bearer ", ok: false},
		{header: "", ok: false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		token, ok := BearerToken(r)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.token, token, tt.header)
	}
}

func TestClaimsContext(t *testing.T) {
	_, ok := ClaimsFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithClaims(context.Background(), &Claims{Repository: "acme/app"})
	claims, ok := ClaimsFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "acme/app", claims.Repository)
}
