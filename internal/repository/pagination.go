package repository

import (
	"encoding/base64"
	"encoding/json"

	appErrors "karmdeep-backend/pkg/errors"
)

// Constants for pagination
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// EffectiveLimit clamps a requested page size into bounds, applying the
// default when unset.
func EffectiveLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// LastEvaluatedKey is the store cursor behind a continuation token. It
// carries the primary key and, for index queries, the index key pair of
// the last record of the previous page.
type LastEvaluatedKey struct {
	PK     string `json:"pk"`
	SK     string `json:"sk"`
	GSI1PK string `json:"gsi1pk,omitempty"`
	GSI1SK string `json:"gsi1sk,omitempty"`
	GSI2PK string `json:"gsi2pk,omitempty"`
	GSI2SK string `json:"gsi2sk,omitempty"`
}

// EncodeNextToken encodes a cursor as an opaque base64 token.
func EncodeNextToken(key LastEvaluatedKey) string {
	data, err := json.Marshal(key)
	if err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeNextToken decodes a token back to the cursor. Tokens are opaque to
// callers; anything that does not decode symmetrically is a bad request.
func DecodeNextToken(token string) (*LastEvaluatedKey, error) {
	if token == "" {
		return nil, nil
	}

	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, appErrors.NewValidation("invalid pagination token")
	}

	var key LastEvaluatedKey
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, appErrors.NewValidation("invalid pagination token")
	}

	return &key, nil
}
