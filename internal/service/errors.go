// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package service holds the application logic between HTTP handlers and the
// store: landing page assembly with its read-through cache, and the
// back-office operations that manage site content.
package service

import (
	"errors"
	"sort"
	"strings"
)

// Sentinel errors returned by services. Match with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrProfileExists      = errors.New("a profile already exists")
	ErrProfileUndeletable = errors.New("the profile cannot be deleted")
	ErrInvalid            = errors.New("invalid input")
)

// FieldErrors maps field names to validation messages.
type FieldErrors map[string][]string

// ValidationError carries per-field messages. It matches ErrInvalid.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrInvalid) true.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// AsValidation extracts the field errors from err, if any.
func AsValidation(err error) (FieldErrors, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields, true
	}
	return nil, false
}
