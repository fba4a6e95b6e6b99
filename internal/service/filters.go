// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"portfolio/internal/store"
)

// Date filter names accepted by back-office listings.
const (
	DateToday     = "today"
	DatePast7Days = "past_7_days"
	DateThisMonth = "this_month"
	DateThisYear  = "this_year"
)

// ParseDateFilter turns a named period into a half-open range ending at
// the start of tomorrow. An empty name means no filter.
func ParseDateFilter(name string, now time.Time) (*store.DateRange, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)

	var from time.Time
	switch name {
	case DateToday:
		from = today
	case DatePast7Days:
		from = today.AddDate(0, 0, -7)
	case DateThisMonth:
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case DateThisYear:
		from = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	default:
		return nil, &ValidationError{Fields: FieldErrors{
			"date": {fmt.Sprintf("Unknown date filter %q.", name)},
		}}
	}
	return &store.DateRange{From: from, To: tomorrow}, nil
}

// ParseBoolFilter reads a tri-state filter value. Empty means no filter.
// Accepts true/false, 1/0, yes/no.
func ParseBoolFilter(field, raw string) (*bool, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch raw {
	case "":
		return nil, nil
	case "yes":
		raw = "true"
	case "no":
		raw = "false"
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, &ValidationError{Fields: FieldErrors{
			field: {fmt.Sprintf("Expected true or false, got %q.", raw)},
		}}
	}
	return &b, nil
}
