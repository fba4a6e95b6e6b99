// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package mail delivers plain-text email. A Sender talks to a transport
// (SMTP or the log), and a Notifier turns contact messages into email
// without ever failing the caller.
package mail

import (
	"context"
	"errors"
	"mime"
	"strings"
)

// Message is a single plain-text email.
type Message struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// Sender delivers a Message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ErrNoRecipients is returned when a message has no To addresses.
var ErrNoRecipients = errors.New("mail: no recipients")

var headerSanitizer = strings.NewReplacer("\r", " ", "\n", " ")

// Bytes renders the message in RFC 5322 form. Header values are stripped of
// line breaks so user input cannot inject extra headers, and a non-ASCII
// subject is RFC 2047 encoded.
func (m Message) Bytes() []byte {
	var b strings.Builder
	b.WriteString("From: " + headerSanitizer.Replace(m.From) + "\r\n")
	b.WriteString("To: " + headerSanitizer.Replace(strings.Join(m.To, ", ")) + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", headerSanitizer.Replace(m.Subject)) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")

	body := strings.ReplaceAll(m.Body, "\r\n", "\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}
