// Package validation wraps validator/v10 with the SRP-specific tags.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"alliance-srp/internal/core/domain"

	"github.com/go-playground/validator/v10"
)

// killmailURL matches zKillboard links: https://zkillboard.com/kill/<id>/
var killmailURL = regexp.MustCompile(`^https?://(?:www\.)?zkillboard\.com/kill/(\d+)/?$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("killmail_url", func(fl validator.FieldLevel) bool {
		_, err := ParseKillmailURL(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("opcontext", func(fl validator.FieldLevel) bool {
		return domain.OperationContext(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return domain.Role(fl.Field().String()).IsValid()
	})

	return v
}

// Struct validates s against its validate tags
func Struct(s interface{}) error {
	return validate.Struct(s)
}

// Errors turns a validation error into field -> failed tag.
// Returns nil when err is not a validation error.
func Errors(err error) map[string]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}

// ParseKillmailURL extracts the kill record id from a zKillboard link
func ParseKillmailURL(raw string) (int64, error) {
	m := killmailURL.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidKillmailURL, raw)
	}

	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidKillmailURL, raw)
	}
	return id, nil
}
