// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"
)

// validator collects field errors. Messages follow the "Title is
// required." / "Title is too long (max N characters)." pattern.
type validator struct {
	errs FieldErrors
}

func (v *validator) add(field, msg string) {
	if v.errs == nil {
		v.errs = FieldErrors{}
	}
	v.errs[field] = append(v.errs[field], msg)
}

// text checks a required string field.
func (v *validator) text(field, label, value string, maxLen int) {
	if strings.TrimSpace(value) == "" {
		v.add(field, label+" is required.")
		return
	}
	v.maxLen(field, label, value, maxLen)
}

// maxLen checks an optional string field. A zero limit means unlimited.
func (v *validator) maxLen(field, label, value string, maxLen int) {
	if maxLen > 0 && utf8.RuneCountInString(value) > maxLen {
		v.add(field, fmt.Sprintf("%s is too long (max %d characters).", label, maxLen))
	}
}

// url checks an optional absolute http(s) URL.
func (v *validator) url(field, label, value string, maxLen int) {
	if value == "" {
		return
	}
	u, err := url.ParseRequestURI(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		v.add(field, label+" must be a valid http or https URL.")
		return
	}
	v.maxLen(field, label, value, maxLen)
}

// email checks a required bare email address.
func (v *validator) email(field, label, value string) {
	if value == "" {
		v.add(field, label+" is required.")
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		v.add(field, label+" must be a valid email address.")
	}
}

func (v *validator) check(ok bool, field, msg string) {
	if !ok {
		v.add(field, msg)
	}
}

func (v *validator) err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.errs}
}
