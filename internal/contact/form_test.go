// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package contact

import (
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func ts(ago time.Duration) string {
	return strconv.FormatFloat(float64(testNow.Add(-ago).UnixNano())/1e9, 'f', 3, 64)
}

func validForm() Form {
	return Form{
		Name:      "Ann Example",
		Email:     "ann@example.com",
		Subject:   "Project inquiry",
		Message:   "I would like to talk about a project.",
		Timestamp: ts(10 * time.Second),
	}
}

func TestValidateAcceptsValidForm(t *testing.T) {
	sub, errs := Validate(validForm(), testNow)
	assert.Empty(t, errs)
	require.NotNil(t, sub)
	assert.Equal(t, "Ann Example", sub.Name)
}

func TestValidateTrimsFields(t *testing.T) {
	f := validForm()
	f.Name = "  Ann  "
	f.Email = " ann@example.com\n"
	f.Message = "   Exactly ten   "
	sub, errs := Validate(f, testNow)
	require.Empty(t, errs)
	assert.Equal(t, "Ann", sub.Name)
	assert.Equal(t, "ann@example.com", sub.Email)
	assert.Equal(t, "Exactly ten", sub.Message)
}

func TestValidateFieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Form)
		field  string
		want   string
	}{
		{"missing name", func(f *Form) { f.Name = "" }, "name", MsgNameRequired},
		{"blank name", func(f *Form) { f.Name = "   " }, "name", MsgNameRequired},
		{"long name", func(f *Form) { f.Name = strings.Repeat("a", 101) }, "name", "Ensure this value has at most 100 characters (it has 101)."},
		{"missing email", func(f *Form) { f.Email = "" }, "email", MsgEmailRequired},
		{"bad email", func(f *Form) { f.Email = "not-an-email" }, "email", MsgEmailInvalid},
		{"display name email", func(f *Form) { f.Email = "Ann <ann@example.com>" }, "email", MsgEmailInvalid},
		{"dotless domain", func(f *Form) { f.Email = "ann@localhost" }, "email", MsgEmailInvalid},
		{"missing subject", func(f *Form) { f.Subject = "" }, "subject", MsgSubjectRequired},
		{"long subject", func(f *Form) { f.Subject = strings.Repeat("s", 201) }, "subject", "Ensure this value has at most 200 characters (it has 201)."},
		{"missing message", func(f *Form) { f.Message = "" }, "message", MsgMessageRequired},
		{"short message", func(f *Form) { f.Message = "Hi there" }, "message", MsgMessageTooShort},
		{"short after trim", func(f *Form) { f.Message = "   123456789   " }, "message", MsgMessageTooShort},
		{"too fast", func(f *Form) { f.Timestamp = ts(time.Second) }, "timestamp", MsgTooFast},
		{"future timestamp", func(f *Form) { f.Timestamp = ts(-time.Minute) }, "timestamp", MsgTooFast},
		{"garbage timestamp", func(f *Form) { f.Timestamp = "yesterday" }, "timestamp", MsgBadTimestamp},
		{"nan timestamp", func(f *Form) { f.Timestamp = "NaN" }, "timestamp", MsgBadTimestamp},
		{"overflowing timestamp", func(f *Form) { f.Timestamp = "1e19" }, "timestamp", MsgBadTimestamp},
		{"infinite timestamp", func(f *Form) { f.Timestamp = "+Inf" }, "timestamp", MsgBadTimestamp},
		{"negative timestamp", func(f *Form) { f.Timestamp = "-5" }, "timestamp", MsgBadTimestamp},
		{"beyond clock skew", func(f *Form) { f.Timestamp = ts(-time.Hour) }, "timestamp", MsgBadTimestamp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)
			sub, errs := Validate(f, testNow)
			assert.Nil(t, sub)
			assert.Equal(t, []string{tt.want}, errs[tt.field])
			assert.Len(t, errs, 1, "only %s should fail", tt.field)
		})
	}
}

func TestValidateTimingBoundary(t *testing.T) {
	f := validForm()
	f.Timestamp = ts(3 * time.Second)
	_, errs := Validate(f, testNow)
	assert.Empty(t, errs, "exactly three seconds is allowed")

	f.Timestamp = ts(2999 * time.Millisecond)
	_, errs = Validate(f, testNow)
	assert.True(t, errs.Has("timestamp"))
}

func TestValidateEmptyTimestampSkipsCheck(t *testing.T) {
	f := validForm()
	f.Timestamp = ""
	_, errs := Validate(f, testNow)
	assert.Empty(t, errs)
}

func TestValidateCollectsEveryError(t *testing.T) {
	_, errs := Validate(Form{Timestamp: ts(0)}, testNow)
	for _, field := range []string{"name", "email", "subject", "message", "timestamp"} {
		assert.True(t, errs.Has(field), "expected error for %s", field)
	}
	assert.Equal(t, MsgNameRequired, errs.First("name"))
	assert.Equal(t, "", errs.First("unknown"))
}

func TestFormFromRequest(t *testing.T) {
	body := url.Values{
		"name": {"Ann"}, "email": {"ann@example.com"}, "subject": {"Hi"},
		"message": {"Hello world!"}, "timestamp": {"123.5"},
	}
	r := httptest.NewRequest("POST", "/contact/", strings.NewReader(body.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	f := FormFromRequest(r)
	assert.Equal(t, Form{Name: "Ann", Email: "ann@example.com", Subject: "Hi", Message: "Hello world!", Timestamp: "123.5"}, f)
}
