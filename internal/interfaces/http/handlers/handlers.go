// Package handlers exposes the service operations over chi routers. Each
// handler parses transport detail and delegates; no business rules live
// here.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	appErrors "karmdeep-backend/pkg/errors"
)

// decodeBody reads a JSON object request body. An empty body decodes to an
// empty payload, matching how the services treat absent fields.
func decodeBody(r *http.Request) (map[string]interface{}, error) {
	payload := map[string]interface{}{}
	if r.Body == nil {
		return payload, nil
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return payload, nil
		}
		return nil, appErrors.NewValidation("invalid request body")
	}
	return payload, nil
}

// pageParams reads the common pagination query parameters.
func pageParams(r *http.Request) (int, string) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	return limit, r.URL.Query().Get("nextToken")
}
