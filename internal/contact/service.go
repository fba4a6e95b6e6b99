// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package contact

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"portfolio/internal/models"
)

// SuccessMessage is shown to visitors after a successful submission.
const SuccessMessage = "Your message has been sent successfully! I will get back to you soon."

// FailureMessage is shown above the form when validation fails.
const FailureMessage = "Please correct the errors below."

// MessageStore persists contact messages.
type MessageStore interface {
	Create(ctx context.Context, m *models.ContactMessage) (*models.ContactMessage, error)
}

// Notifier is told about every stored message. It has no error result:
// delivery problems are its own to log.
type Notifier interface {
	Notify(ctx context.Context, msg models.ContactMessage)
}

// Result is the outcome of a submission. Exactly one of Message and Errors
// is set.
type Result struct {
	Message *models.ContactMessage
	Errors  Errors
}

// OK reports whether the submission was accepted.
func (r *Result) OK() bool {
	return r.Message != nil && len(r.Errors) == 0
}

// Service runs the intake pipeline shared by the landing page and the
// contact page.
type Service struct {
	store    MessageStore
	notifier Notifier
	now      func() time.Time
}

// NewService creates a contact service. notifier may be nil.
func NewService(store MessageStore, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier, now: time.Now}
}

// Submit validates f, stores it and notifies the owner. Validation failures
// come back in Result.Errors with nothing written; only storage failures
// are returned as errors.
func (s *Service) Submit(ctx context.Context, f Form) (*Result, error) {
	sub, errs := Validate(f, s.now())
	if len(errs) > 0 {
		slog.DebugContext(ctx, "contact form rejected", "fields", len(errs))
		return &Result{Errors: errs}, nil
	}

	msg, err := s.store.Create(ctx, &models.ContactMessage{
		Name:    sub.Name,
		Email:   sub.Email,
		Subject: sub.Subject,
		Message: sub.Message,
	})
	if err != nil {
		return nil, fmt.Errorf("store contact message: %w", err)
	}

	slog.InfoContext(ctx, "contact message received", "id", msg.ID)

	if s.notifier != nil {
		s.notifier.Notify(ctx, *msg)
	}
	return &Result{Message: msg}, nil
}
