// Package identity defines the authenticated-user record and the capability
// interfaces the HTTP layer uses to resolve and gate it.
package identity

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/huangang/projectpulse/internal/utils"
)

var (
	ErrMissingCredentials = errors.New("authorization header required")
	ErrInvalidCredentials = errors.New("invalid or expired token")
)

// Identity is the resolved caller. Email is optional.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// DisplayName is used as the requester label on generated records.
func (i Identity) DisplayName() string {
	if i.Email != "" {
		return i.Email
	}
	return "user"
}

// Resolver extracts the authenticated caller from a request.
type Resolver interface {
	ResolveIdentity(r *http.Request) (Identity, error)
}

// EntitlementChecker decides whether a resolved identity may use the API.
type EntitlementChecker interface {
	CheckEntitlement(ctx context.Context, id Identity) (bool, error)
}

// JWTResolver reads a "Bearer <token>" Authorization header.
type JWTResolver struct {
	tokens *utils.TokenManager
}

func NewJWTResolver(tokens *utils.TokenManager) *JWTResolver {
	return &JWTResolver{tokens: tokens}
}

func (r *JWTResolver) ResolveIdentity(req *http.Request) (Identity, error) {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return Identity{}, ErrMissingCredentials
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return Identity{}, ErrInvalidCredentials
	}

	claims, err := r.tokens.ParseToken(parts[1])
	if err != nil {
		return Identity{}, ErrInvalidCredentials
	}
	return Identity{ID: claims.UserID, Email: claims.Email}, nil
}

// AllowAll grants every identity; used when entitlement.mode is "none".
type AllowAll struct{}

func (AllowAll) CheckEntitlement(context.Context, Identity) (bool, error) {
	return true, nil
}
