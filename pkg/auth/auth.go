// Package auth holds the caller identity model and the authorization
// predicates evaluated before every mutating or sensitive operation.
// Tokens are decoded, not cryptographically verified: signature checks
// belong to the API Gateway authorizer in front of these services.
package auth

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	appErrors "karmdeep-backend/pkg/errors"
)

// Roles recognised across the platform.
const (
	RoleManufacturer  = "MANUFACTURER"
	RoleVendor        = "VENDOR"
	RoleEngineer      = "ENGINEER"
	RoleDeliveryAgent = "DELIVERY_AGENT"
	RoleAdmin         = "ADMIN"
)

// Principal is the authenticated caller's identity derived from the bearer
// credential. CompanyID is set when the caller acts on behalf of a company.
type Principal struct {
	UserID    string
	Email     string
	Role      string
	CompanyID string
}

// ActorID returns the identifier a principal owns resources under: the
// company identity substitutes for the user identity when present.
func (p Principal) ActorID() string {
	if p.CompanyID != "" {
		return p.CompanyID
	}
	return p.UserID
}

// FromBearer decodes the principal out of an Authorization header value.
func FromBearer(header string) (Principal, error) {
	if !strings.HasPrefix(header, "Bearer ") {
		return Principal{}, appErrors.NewUnauthenticated("missing bearer token")
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if raw == "" {
		return Principal{}, appErrors.NewUnauthenticated("missing bearer token")
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return Principal{}, appErrors.NewUnauthenticated("invalid bearer token")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Principal{}, appErrors.NewUnauthenticated("invalid bearer token")
	}

	email, _ := claims["email"].(string)
	role, _ := claims["custom:role"].(string)
	companyID, _ := claims["custom:companyId"].(string)

	return Principal{
		UserID:    sub,
		Email:     email,
		Role:      role,
		CompanyID: companyID,
	}, nil
}

// HasRole reports whether the principal's role is in the allowed set.
func HasRole(p Principal, allowedRoles ...string) bool {
	for _, role := range allowedRoles {
		if p.Role == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the principal carries the admin role.
func IsAdmin(p Principal) bool {
	return p.Role == RoleAdmin
}

// IsOwner reports whether the principal owns the resource, either directly
// or through its company identity.
func IsOwner(p Principal, resourceOwnerID string) bool {
	if resourceOwnerID == "" {
		return false
	}
	return p.UserID == resourceOwnerID || p.CompanyID == resourceOwnerID
}

type contextKey struct{}

var principalKey contextKey

// WithPrincipal stores the principal on the request context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// FromContext retrieves the principal placed by the auth middleware.
func FromContext(ctx context.Context) (Principal, error) {
	p, ok := ctx.Value(principalKey).(Principal)
	if !ok {
		return Principal{}, appErrors.NewUnauthenticated("no authenticated principal")
	}
	return p, nil
}
