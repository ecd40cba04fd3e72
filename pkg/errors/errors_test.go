package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassification(t *testing.T) {
	cases := []struct {
		err       error
		predicate func(error) bool
		code      string
	}{
		{NewValidation("bad input"), IsValidation, "VALIDATION_ERROR"},
		{NewUnauthenticated("no token"), IsUnauthenticated, "UNAUTHORIZED"},
		{NewForbidden("not yours"), IsForbidden, "FORBIDDEN"},
		{NewNotFound("gone"), IsNotFound, "NOT_FOUND"},
		{NewInternal("broke", nil), IsInternal, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		assert.True(t, tc.predicate(tc.err), tc.err.Error())

		var appErr *AppError
		require.True(t, errors.As(tc.err, &appErr))
		assert.Equal(t, tc.code, appErr.Code())
	}
}

func TestWrap(t *testing.T) {
	t.Run("preserves classification of app errors", func(t *testing.T) {
		err := Wrap(NewNotFound("vendor not found"), "loading vendor")
		assert.True(t, IsNotFound(err))
	})

	t.Run("classifies plain errors as internal", func(t *testing.T) {
		err := Wrap(fmt.Errorf("socket closed"), "query failed")
		assert.True(t, IsInternal(err))
		assert.Contains(t, err.Error(), "query failed")
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, "anything"))
	})
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := NewInternal("wrapper", cause)
	assert.True(t, errors.Is(err, cause))
}

func TestPredicatesOnPlainErrors(t *testing.T) {
	plain := fmt.Errorf("plain")
	assert.False(t, IsValidation(plain))
	assert.False(t, IsNotFound(plain))
	assert.False(t, IsValidation(nil))
}
