package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "karmdeep-backend/pkg/errors"
)

func TestRequired(t *testing.T) {
	t.Run("reports only the missing fields", func(t *testing.T) {
		err := Required(map[string]interface{}{"a": 1}, "a", "b")
		require.Error(t, err)
		assert.True(t, appErrors.IsValidation(err))
		assert.Equal(t, "missing required fields: b", err.Error())
	})

	t.Run("zero and false are present values", func(t *testing.T) {
		payload := map[string]interface{}{
			"quantity":   0,
			"negotiable": false,
		}
		assert.NoError(t, Required(payload, "quantity", "negotiable"))
	})

	t.Run("nil and blank strings are missing", func(t *testing.T) {
		payload := map[string]interface{}{
			"a": nil,
			"b": "   ",
		}
		err := Required(payload, "a", "b")
		require.Error(t, err)
		assert.Equal(t, "missing required fields: a, b", err.Error())
	})

	t.Run("all present passes", func(t *testing.T) {
		assert.NoError(t, Required(map[string]interface{}{"a": "x"}, "a"))
	})
}

func TestEmail(t *testing.T) {
	for _, addr := range []string{"sales@acme.example", "a@b.co"} {
		assert.NoError(t, Email(addr), addr)
	}
	for _, addr := range []string{"", "nope", "a@b", "a b@c.d", "@c.d"} {
		assert.Error(t, Email(addr), addr)
	}
}

func TestFutureTime(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.NoError(t, FutureTime("2024-06-02T12:00:00Z", "deadline", now))

	err := FutureTime("2024-06-01T12:00:00Z", "deadline", now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "future")

	err = FutureTime("tomorrow", "deadline", now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ISO-8601")
}

func TestStruct(t *testing.T) {
	type payload struct {
		Name  string `validate:"required"`
		Email string `validate:"omitempty,email"`
	}

	assert.NoError(t, Struct(payload{Name: "x"}))

	err := Struct(payload{Email: "nope"})
	require.Error(t, err)
	assert.True(t, appErrors.IsValidation(err))
	assert.Contains(t, err.Error(), "Name")
	assert.Contains(t, err.Error(), "Email")
}

func TestOneOf(t *testing.T) {
	assert.NoError(t, OneOf("A", "status", "A", "B"))
	err := OneOf("C", "status", "A", "B")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status must be one of: A, B")
}

func TestLengthAndRange(t *testing.T) {
	assert.NoError(t, Length("abc", "name", 1, 5))
	assert.Error(t, Length("", "name", 1, 5))
	assert.NoError(t, Range(5, "rating", 0, 5))
	assert.Error(t, Range(-1, "rating", 0, 5))
}
