/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package validation wraps go-playground/validator with a shared instance,
// a "finite" tag for floating point fields, and conversion of field errors
// into structured errors.
package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	pferrors "github.com/NVIDIA/playfit/pkg/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError describes one failed constraint.
type FieldError struct {
	Field   string `json:"field" yaml:"field"`
	Tag     string `json:"tag" yaml:"tag"`
	Param   string `json:"param,omitempty" yaml:"param,omitempty"`
	Message string `json:"message" yaml:"message"`
}

// Validator returns the shared validator instance. Field names in errors
// follow json tags.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		// registration only fails for an empty tag or nil func
		_ = validate.RegisterValidation("finite", isFinite)
	})
	return validate
}

func isFinite(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return true
	}
}

// Struct validates s and returns a StructuredError with the given code when
// any constraint fails. The failing fields are listed under "fields" in the
// error context.
func Struct(s any, code pferrors.ErrorCode, message string) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return pferrors.Wrap(pferrors.ErrCodeInternal, "validation could not run", err)
	}

	fields := make([]FieldError, 0, len(verrs))
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		f := FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: translate(fe),
		}
		fields = append(fields, f)
		msgs = append(msgs, f.Message)
	}

	return pferrors.NewWithContext(code,
		fmt.Sprintf("%s: %s", message, strings.Join(msgs, "; ")),
		map[string]any{"fields": fields})
}

var messageTemplates = map[string]string{
	"required": "%s is required",
	"finite":   "%s must be a finite number",
}

var messageWithParam = map[string]string{
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
	"min":   "%s must be at least %s",
	"max":   "%s must be at most %s",
	"oneof": "%s must be one of: %s",
}

func translate(fe validator.FieldError) string {
	if tmpl, ok := messageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, fe.Field())
	}
	if tmpl, ok := messageWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}
