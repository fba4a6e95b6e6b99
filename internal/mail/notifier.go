// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mail

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"portfolio/internal/models"
)

// SubjectPrefix starts every contact notification subject.
const SubjectPrefix = "Portfolio Contact: "

// Notifier emails the site owner about new contact messages. Delivery is
// best-effort: failures are logged and never returned.
type Notifier struct {
	sender Sender
	from   string
	to     []string
}

// NewNotifier creates a notifier that sends from -> to through sender. A
// nil sender disables notifications.
func NewNotifier(sender Sender, from string, to ...string) *Notifier {
	return &Notifier{sender: sender, from: from, to: to}
}

// Enabled reports whether notifications are delivered anywhere.
func (n *Notifier) Enabled() bool {
	return n != nil && n.sender != nil && len(n.to) > 0
}

// Notify sends one notification for msg. It never fails the caller.
func (n *Notifier) Notify(ctx context.Context, msg models.ContactMessage) {
	if !n.Enabled() {
		slog.DebugContext(ctx, "contact notification skipped: mail not configured", "id", msg.ID)
		return
	}

	err := n.sender.Send(ctx, Message{
		From:    n.from,
		To:      n.to,
		Subject: SubjectPrefix + msg.Subject,
		Body:    notificationBody(msg),
	})
	if err != nil {
		slog.WarnContext(ctx, "contact notification failed", "id", msg.ID, "error", err)
	}
}

func notificationBody(msg models.ContactMessage) string {
	sent := msg.Timestamp
	if sent.IsZero() {
		sent = time.Now()
	}

	var b strings.Builder
	b.WriteString("New message from your portfolio contact form:\n\n")
	fmt.Fprintf(&b, "Name: %s\n", msg.Name)
	fmt.Fprintf(&b, "Email: %s\n", msg.Email)
	fmt.Fprintf(&b, "Subject: %s\n\n", msg.Subject)
	b.WriteString("Message:\n")
	b.WriteString(msg.Message)
	fmt.Fprintf(&b, "\n\nSent: %s\n", sent.Format("2006-01-02 15:04:05"))
	return b.String()
}
