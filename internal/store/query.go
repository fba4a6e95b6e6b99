// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"strconv"
	"strings"
	"time"
)

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface{ Scan(...any) error }

// DateRange is a half-open [From, To) interval used by list filters.
type DateRange struct {
	From time.Time
	To   time.Time
}

// query accumulates WHERE conditions and their positional arguments.
type query struct {
	conds []string
	args  []any
}

// arg appends v to the argument list and returns its placeholder.
func (q *query) arg(v any) string {
	q.args = append(q.args, v)
	return "$" + strconv.Itoa(len(q.args))
}

func (q *query) where(cond string) {
	q.conds = append(q.conds, cond)
}

// eq adds "col = value".
func (q *query) eq(col string, v any) {
	q.where(col + " = " + q.arg(v))
}

// within adds a half-open range condition on col when r is set.
func (q *query) within(col string, r *DateRange) {
	if r == nil {
		return
	}
	q.where(col + " >= " + q.arg(r.From) + " AND " + col + " < " + q.arg(r.To))
}

// search adds a case-insensitive containment match of term against any of
// cols. A blank term adds nothing.
func (q *query) search(term string, cols ...string) {
	term = strings.TrimSpace(term)
	if term == "" || len(cols) == 0 {
		return
	}
	p := q.arg(likePattern(term))
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c + " ILIKE " + p
	}
	q.where("(" + strings.Join(parts, " OR ") + ")")
}

// clause renders the WHERE clause, or "" when there are no conditions.
func (q *query) clause() string {
	if len(q.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conds, " AND ")
}

// page renders LIMIT/OFFSET. A non-positive limit means no limit.
func (q *query) page(limit, offset int) string {
	var b strings.Builder
	if limit > 0 {
		b.WriteString(" LIMIT " + q.arg(limit))
	}
	if offset > 0 {
		b.WriteString(" OFFSET " + q.arg(offset))
	}
	return b.String()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps term in % after escaping LIKE wildcards so user input
// matches literally.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// uuidStrings renders ids as text for "= ANY($n::uuid[])" parameters.
func uuidStrings[T interface{ String() string }](ids []T) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
