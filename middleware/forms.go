// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// ValidateForm runs the struct's validate tags
func ValidateForm(form interface{}) error {
	return validate.Struct(form)
}

// InvalidField names the first struct field that failed validation, or ""
func InvalidField(err error) string {
	if fe := firstFieldError(err); fe != nil {
		return fe.Field()
	}
	return ""
}

// InvalidTag names the validation rule the first failing field broke, or ""
func InvalidTag(err error) string {
	if fe := firstFieldError(err); fe != nil {
		return fe.Tag()
	}
	return ""
}

func firstFieldError(err error) validator.FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0]
	}
	return nil
}

// FormString returns a trimmed POST form value
func FormString(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}

// FormRaw returns a POST form value exactly as sent. Used for user names
// and passwords, which are matched byte for byte.
func FormRaw(r *http.Request, key string) string {
	return r.PostFormValue(key)
}

// FormInt64 returns a POST form value parsed as an integer, or 0
func FormInt64(r *http.Request, key string) int64 {
	v, err := strconv.ParseInt(FormString(r, key), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// PathID parses a numeric path parameter. ok is false for anything that
// is not a positive integer.
func PathID(r *http.Request, name string) (id int64, ok bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
