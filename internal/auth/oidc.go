package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"migration_drift_checker/internal/config"
)

// GitHubActionsIssuer issues the OIDC tokens available to GitHub Actions jobs.
const GitHubActionsIssuer = "https://token.actions.githubusercontent.com"

var ErrUnauthorized = errors.New("unauthorized")

// TokenVerifier validates a raw bearer token and returns its claims.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*Claims, error)
}

type OIDCVerifier struct {
	verifier     *oidc.IDTokenVerifier
	repositories map[string]struct{}
}

func NewOIDCVerifier(ctx context.Context, cfg config.OIDCConfig) (*OIDCVerifier, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("create oidc provider: %w", err)
	}
	return newOIDCVerifier(provider.Verifier(&oidc.Config{ClientID: cfg.Audience}), cfg.AllowedRepositories), nil
}

func newOIDCVerifier(verifier *oidc.IDTokenVerifier, repositories []string) *OIDCVerifier {
	allowed := make(map[string]struct{}, len(repositories))
	for _, r := range repositories {
		allowed[strings.ToLower(r)] = struct{}{}
	}
	return &OIDCVerifier{verifier: verifier, repositories: allowed}
}

func (v *OIDCVerifier) Verify(ctx context.Context, rawToken string) (*Claims, error) {
	idToken, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: verify token: %v", ErrUnauthorized, err)
	}

	var claims Claims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("decode claims: %w", err)
	}
	claims.Subject = idToken.Subject

	if len(v.repositories) > 0 {
		if _, ok := v.repositories[strings.ToLower(claims.Repository)]; !ok {
			return nil, fmt.Errorf("%w: repository %q not allowed", ErrUnauthorized, claims.Repository)
		}
	}
	return &claims, nil
}
