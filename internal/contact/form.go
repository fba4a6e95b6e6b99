// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package contact implements the contact form intake: field validation, a
// timing heuristic against bots, persistence and owner notification.
package contact

import (
	"math"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Field limits.
const (
	MaxNameLen      = 100
	MaxEmailLen     = 254
	MaxSubjectLen   = 200
	MinMessageLen   = 10
	MinFillDuration = 3 * time.Second
	TimestampField  = "timestamp"

	// MaxClockSkew is how far ahead of the server clock a form timestamp
	// may be before it is treated as forged.
	MaxClockSkew = time.Minute
)

// Validation messages shown to visitors.
const (
	MsgNameRequired    = "Please enter your name"
	MsgEmailRequired   = "Please enter your email"
	MsgEmailInvalid    = "Please enter a valid email address"
	MsgSubjectRequired = "Please enter a subject"
	MsgMessageRequired = "Please enter your message"
	MsgMessageTooShort = "Message is too short. Please provide more details."
	MsgTooFast         = "Form submitted too quickly. Please try again."
	MsgBadTimestamp    = "Invalid form timestamp."
)

// Form is the raw contact form as submitted.
type Form struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// FormFromRequest reads the contact fields from a parsed form body.
func FormFromRequest(r *http.Request) Form {
	return Form{
		Name:      r.PostFormValue("name"),
		Email:     r.PostFormValue("email"),
		Subject:   r.PostFormValue("subject"),
		Message:   r.PostFormValue("message"),
		Timestamp: r.PostFormValue(TimestampField),
	}
}

// Submission is a validated, trimmed contact form.
type Submission struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Errors maps a field name to its validation messages. An empty map means
// the form is valid.
type Errors map[string][]string

// Add appends msg to field.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Has reports whether field has at least one error.
func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// First returns the first message for field, or "".
func (e Errors) First(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Validate checks f against the contact form rules at instant now. It is
// pure: no I/O, no clock reads.
func Validate(f Form, now time.Time) (*Submission, Errors) {
	errs := Errors{}
	s := &Submission{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Subject: strings.TrimSpace(f.Subject),
		Message: strings.TrimSpace(f.Message),
	}

	switch {
	case s.Name == "":
		errs.Add("name", MsgNameRequired)
	case utf8.RuneCountInString(s.Name) > MaxNameLen:
		errs.Add("name", tooLong(MaxNameLen, s.Name))
	}

	switch {
	case s.Email == "":
		errs.Add("email", MsgEmailRequired)
	case utf8.RuneCountInString(s.Email) > MaxEmailLen || !validEmail(s.Email):
		errs.Add("email", MsgEmailInvalid)
	}

	switch {
	case s.Subject == "":
		errs.Add("subject", MsgSubjectRequired)
	case utf8.RuneCountInString(s.Subject) > MaxSubjectLen:
		errs.Add("subject", tooLong(MaxSubjectLen, s.Subject))
	}

	switch {
	case s.Message == "":
		errs.Add("message", MsgMessageRequired)
	case utf8.RuneCountInString(s.Message) < MinMessageLen:
		errs.Add("message", MsgMessageTooShort)
	}

	if msg := checkTiming(strings.TrimSpace(f.Timestamp), now); msg != "" {
		errs.Add(TimestampField, msg)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return s, errs
}

// checkTiming applies the minimum fill time rule. An empty timestamp skips
// the check; one before the epoch or past the allowed skew is malformed.
func checkTiming(raw string, now time.Time) string {
	if raw == "" {
		return ""
	}
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(secs) || secs < 0 || secs > float64(now.Add(MaxClockSkew).Unix()) {
		return MsgBadTimestamp
	}
	whole, frac := math.Modf(secs)
	started := time.Unix(int64(whole), int64(frac*1e9))
	if now.Sub(started) < MinFillDuration {
		return MsgTooFast
	}
	return ""
}

// validEmail accepts a bare address with a dotted domain, rejecting display
// names and angle-bracket forms.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	if at <= 0 {
		return false
	}
	domain := s[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}

func tooLong(limit int, s string) string {
	return "Ensure this value has at most " + strconv.Itoa(limit) +
		" characters (it has " + strconv.Itoa(utf8.RuneCountInString(s)) + ")."
}
