package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "karmdeep-backend/pkg/errors"
)

func TestEffectiveLimit(t *testing.T) {
	assert.Equal(t, DefaultPageSize, EffectiveLimit(0))
	assert.Equal(t, DefaultPageSize, EffectiveLimit(-5))
	assert.Equal(t, 35, EffectiveLimit(35))
	assert.Equal(t, MaxPageSize, EffectiveLimit(500))
}

func TestNextTokenRoundTrip(t *testing.T) {
	key := LastEvaluatedKey{
		PK:     "TENDER#t-1",
		SK:     "METADATA",
		GSI1PK: "BUYER#c-1",
		GSI1SK: "TENDER#2024-01-01T00:00:00Z",
	}

	token := EncodeNextToken(key)
	require.NotEmpty(t, token)

	decoded, err := DecodeNextToken(token)
	require.NoError(t, err)
	require.NotNil(t, decoded)
	assert.Equal(t, key, *decoded)
}

func TestDecodeNextToken_Empty(t *testing.T) {
	decoded, err := DecodeNextToken("")
	require.NoError(t, err)
	assert.Nil(t, decoded)
}

func TestDecodeNextToken_Invalid(t *testing.T) {
	for _, token := range []string{"not base64!!", "bm90IGpzb24"} {
		_, err := DecodeNextToken(token)
		require.Error(t, err)
		assert.True(t, appErrors.IsValidation(err))
	}
}
