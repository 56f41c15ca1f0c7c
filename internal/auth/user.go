package auth

import (
	"context"
	"net/http"
	"strings"
)

// Claims identifies the CI job behind a request. Field names follow the
// GitHub Actions OIDC token.
type Claims struct {
	Subject    string `json:"sub"`
	Repository string `json:"repository"`
	Ref        string `json:"ref"`
	Workflow   string `json:"workflow"`
	Actor      string `json:"actor"`
	RunID      string `json:"run_id"`
}

type contextKey string

const claimsKey contextKey = "drift-claims"

func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	val := ctx.Value(claimsKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*Claims)
	return claims, ok
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
