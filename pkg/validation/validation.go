// Package validation provides the required-field and domain-constraint
// checks run before any store mutation. All failures come back as a single
// validation-kind AppError whose message enumerates every violation.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	appErrors "karmdeep-backend/pkg/errors"
)

var validate = validator.New()

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Required checks that every named field is present in the payload.
// A field counts as missing when it is absent, nil, or an empty string.
// Zero and false are present values: a quantity of 0 is valid input and
// must not be reported as missing. All missing fields are listed in one
// error rather than failing on the first.
func Required(payload map[string]interface{}, fields ...string) error {
	var missing []string
	for _, field := range fields {
		value, ok := payload[field]
		if !ok || value == nil {
			missing = append(missing, field)
			continue
		}
		if s, isString := value.(string); isString && strings.TrimSpace(s) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return appErrors.NewValidation("missing required fields: " + strings.Join(missing, ", "))
	}
	return nil
}

// Struct runs the tag-based validator over a request payload struct and
// folds every violation into a single validation error.
func Struct(payload interface{}) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return appErrors.NewInternal("payload is not validatable", err)
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		messages := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			messages = append(messages, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
		return appErrors.NewValidation(strings.Join(messages, "; "))
	}
	return appErrors.NewValidation(err.Error())
}

// Email checks the address against the same permissive pattern the rest of
// the platform uses. Full RFC validation is not the goal here.
func Email(address string) error {
	if !emailRegex.MatchString(address) {
		return appErrors.NewValidation("invalid email format")
	}
	return nil
}

// FutureTime parses an ISO-8601 timestamp and rejects any instant at or
// before now. Tender deadlines go through here.
func FutureTime(value, fieldName string, now time.Time) error {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return appErrors.NewValidation(fmt.Sprintf("%s must be an ISO-8601 timestamp", fieldName))
	}
	if !t.After(now) {
		return appErrors.NewValidation(fmt.Sprintf("%s must be in the future", fieldName))
	}
	return nil
}

// Length checks a string's rune count against inclusive bounds.
func Length(value, fieldName string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if length < min || length > max {
		return appErrors.NewValidation(fmt.Sprintf("%s must be between %d and %d characters", fieldName, min, max))
	}
	return nil
}

// Range checks a numeric value against inclusive bounds.
func Range(value float64, fieldName string, min, max float64) error {
	if value < min || value > max {
		return appErrors.NewValidation(fmt.Sprintf("%s must be between %v and %v", fieldName, min, max))
	}
	return nil
}

// OneOf checks enum membership.
func OneOf(value, fieldName string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return appErrors.NewValidation(fmt.Sprintf("%s must be one of: %s", fieldName, strings.Join(allowed, ", ")))
}
