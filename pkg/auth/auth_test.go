package auth

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "karmdeep-backend/pkg/errors"
)

func bearerFor(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return "Bearer " + token
}

func TestFromBearer(t *testing.T) {
	t.Run("decodes the full principal", func(t *testing.T) {
		header := bearerFor(t, jwt.MapClaims{
			"sub":              "u-1",
			"email":            "v@example.com",
			"custom:role":      "VENDOR",
			"custom:companyId": "c-1",
		})

		p, err := FromBearer(header)
		require.NoError(t, err)
		assert.Equal(t, "u-1", p.UserID)
		assert.Equal(t, "v@example.com", p.Email)
		assert.Equal(t, RoleVendor, p.Role)
		assert.Equal(t, "c-1", p.CompanyID)
	})

	t.Run("company claim is optional", func(t *testing.T) {
		header := bearerFor(t, jwt.MapClaims{
			"sub":         "u-1",
			"custom:role": "ENGINEER",
		})

		p, err := FromBearer(header)
		require.NoError(t, err)
		assert.Empty(t, p.CompanyID)
		assert.Equal(t, "u-1", p.ActorID())
	})

	t.Run("rejects missing or malformed headers", func(t *testing.T) {
		for _, header := range []string{"", "Bearer ", "Bearer not-a-token", "Basic abc"} {
			_, err := FromBearer(header)
			require.Error(t, err, header)
			assert.True(t, appErrors.IsUnauthenticated(err), header)
		}
	})

	t.Run("rejects token without subject", func(t *testing.T) {
		header := bearerFor(t, jwt.MapClaims{"custom:role": "VENDOR"})
		_, err := FromBearer(header)
		require.Error(t, err)
		assert.True(t, appErrors.IsUnauthenticated(err))
	})
}

func TestActorID(t *testing.T) {
	assert.Equal(t, "c-1", Principal{UserID: "u-1", CompanyID: "c-1"}.ActorID())
	assert.Equal(t, "u-1", Principal{UserID: "u-1"}.ActorID())
}

func TestIsOwner(t *testing.T) {
	p := Principal{UserID: "u-1", CompanyID: "c-1"}

	assert.True(t, IsOwner(p, "u-1"))
	assert.True(t, IsOwner(p, "c-1"))
	assert.False(t, IsOwner(p, "u-2"))
	assert.False(t, IsOwner(p, ""))

	solo := Principal{UserID: "u-1"}
	assert.True(t, IsOwner(solo, "u-1"))
	assert.False(t, IsOwner(solo, "c-1"))
}

func TestAuthorize(t *testing.T) {
	vendorOnly := Policy{Roles: []string{RoleVendor}, Message: "vendors only"}
	ownerOnly := Policy{Ownership: OwnershipRequired}

	t.Run("role policy", func(t *testing.T) {
		assert.NoError(t, Authorize(Principal{Role: RoleVendor}, vendorOnly, ""))

		err := Authorize(Principal{Role: RoleManufacturer}, vendorOnly, "")
		require.Error(t, err)
		assert.True(t, appErrors.IsForbidden(err))
		assert.Contains(t, err.Error(), "vendors only")
	})

	t.Run("ownership policy", func(t *testing.T) {
		owner := Principal{UserID: "u-1", CompanyID: "c-1", Role: RoleVendor}
		assert.NoError(t, Authorize(owner, ownerOnly, "c-1"))

		err := Authorize(owner, ownerOnly, "c-2")
		require.Error(t, err)
		assert.True(t, appErrors.IsForbidden(err))
	})

	t.Run("admin bypasses ownership but not role sets", func(t *testing.T) {
		admin := Principal{UserID: "a-1", Role: RoleAdmin}
		assert.NoError(t, Authorize(admin, ownerOnly, "c-2"))

		err := Authorize(admin, vendorOnly, "")
		require.Error(t, err)
		assert.True(t, appErrors.IsForbidden(err))
	})
}

func TestPrincipalContext(t *testing.T) {
	p := Principal{UserID: "u-1", Role: RoleAdmin}
	ctx := WithPrincipal(context.Background(), p)

	got, err := FromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = FromContext(context.Background())
	require.Error(t, err)
	assert.True(t, appErrors.IsUnauthenticated(err))
}
