// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/olegiv/oblog/internal/model"
)

// messages maps validation tags to friendly messages. Messages with two
// verbs also receive the tag parameter.
var messages = map[string]string{
	"required":        "%s is required.",
	"email":           "%s must be a valid email address.",
	"min":             "%s must be at least %s characters long.",
	"max":             "%s must be no longer than %s characters.",
	"eqfield":         "%s does not match.",
	"oneof":           "%s must be one of: %s.",
	"url":             "%s must be a valid URL.",
	"alphanumunicode": "%s may only contain letters and digits.",
}

// Validator wraps go-playground/validator and reports failures as
// model.ValidationErrors keyed by the form field name.
type Validator struct {
	v *validator.Validate
}

// NewValidator creates a validator that names fields after their form tag.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct validates s and returns nil or model.ValidationErrors.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating input: %w", err)
	}

	out := model.ValidationErrors{}
	for _, fe := range fieldErrs {
		out.Add(fe.Field(), fieldMessage(fe))
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	label := fieldLabel(fe.Field())
	msg, ok := messages[fe.Tag()]
	if !ok {
		return label + " is invalid."
	}
	if strings.Count(msg, "%s") == 2 {
		return fmt.Sprintf(msg, label, strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return fmt.Sprintf(msg, label)
}

// fieldLabel turns "confirm_password" into "Confirm password".
func fieldLabel(field string) string {
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
