// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mail

import (
	"context"
	"errors"
	"mime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/models"
)

type recordingSender struct {
	sent []Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg Message) error {
	r.sent = append(r.sent, msg)
	return r.err
}

func testMessage() models.ContactMessage {
	return models.ContactMessage{
		Name:      "Ann",
		Email:     "ann@example.com",
		Subject:   "Hello",
		Message:   "I would like to hire you.",
		Timestamp: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
	}
}

func TestNotifierSendsOnce(t *testing.T) {
	rec := &recordingSender{}
	n := NewNotifier(rec, "site@example.com", "owner@example.com")

	n.Notify(context.Background(), testMessage())

	require.Len(t, rec.sent, 1)
	got := rec.sent[0]
	assert.Equal(t, "Portfolio Contact: Hello", got.Subject)
	assert.Equal(t, "site@example.com", got.From)
	assert.Equal(t, []string{"owner@example.com"}, got.To)
	assert.Contains(t, got.Body, "Name: Ann")
	assert.Contains(t, got.Body, "Email: ann@example.com")
	assert.Contains(t, got.Body, "I would like to hire you.")
	assert.Contains(t, got.Body, "Sent: 2026-03-04 05:06:07")
}

func TestNotifierSwallowsFailures(t *testing.T) {
	rec := &recordingSender{err: errors.New("relay refused")}
	n := NewNotifier(rec, "site@example.com", "owner@example.com")

	// Must not panic; there is nothing to return.
	n.Notify(context.Background(), testMessage())
	assert.Len(t, rec.sent, 1)
}

func TestNotifierDisabled(t *testing.T) {
	var nilNotifier *Notifier
	assert.False(t, nilNotifier.Enabled())
	nilNotifier.Notify(context.Background(), testMessage())

	n := NewNotifier(nil, "site@example.com", "owner@example.com")
	assert.False(t, n.Enabled())
	n.Notify(context.Background(), testMessage())

	rec := &recordingSender{}
	n = NewNotifier(rec, "site@example.com")
	assert.False(t, n.Enabled(), "no recipients means disabled")
	n.Notify(context.Background(), testMessage())
	assert.Empty(t, rec.sent)
}

func TestMessageBytesStripsHeaderInjection(t *testing.T) {
	m := Message{
		From:    "site@example.com",
		To:      []string{"owner@example.com"},
		Subject: "Hi\r\nBcc: victim@example.com",
		Body:    "line one\nline two",
	}
	raw := string(m.Bytes())

	headers, body, ok := strings.Cut(raw, "\r\n\r\n")
	require.True(t, ok)
	assert.NotContains(t, headers, "\r\nBcc:")
	assert.Contains(t, headers, "Subject: Hi  Bcc: victim@example.com")
	assert.Equal(t, "line one\r\nline two\r\n", body)
}

func TestMessageBytesEncodesNonASCIISubject(t *testing.T) {
	m := Message{From: "site@example.com", To: []string{"owner@example.com"}, Subject: "Café ☕", Body: "x"}
	headers, _, ok := strings.Cut(string(m.Bytes()), "\r\n\r\n")
	require.True(t, ok)
	assert.Contains(t, headers, "Subject: =?utf-8?q?Caf=C3=A9_=E2=98=95?=")

	var subject string
	for _, line := range strings.Split(headers, "\r\n") {
		if v, found := strings.CutPrefix(line, "Subject: "); found {
			subject = v
		}
	}
	decoded, err := new(mime.WordDecoder).DecodeHeader(subject)
	require.NoError(t, err)
	assert.Equal(t, "Café ☕", decoded)
}

func TestLogSender(t *testing.T) {
	err := LogSender{}.Send(context.Background(), Message{To: []string{"a@example.com"}, Subject: "x"})
	assert.NoError(t, err)

	err = LogSender{}.Send(context.Background(), Message{})
	assert.ErrorIs(t, err, ErrNoRecipients)
}

func TestSMTPSenderRequiresRecipients(t *testing.T) {
	s := NewSMTPSender("localhost", "25", "", "")
	assert.ErrorIs(t, s.Send(context.Background(), Message{}), ErrNoRecipients)
}

func TestSMTPSenderDialFailure(t *testing.T) {
	s := NewSMTPSender("127.0.0.1", "1", "", "")
	s.timeout = time.Second
	err := s.Send(context.Background(), Message{From: "a@example.com", To: []string{"b@example.com"}})
	assert.Error(t, err)
}
