// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pagination turns a raw ?page= token and an item count into a
// clamped page window. Missing, non-numeric and non-positive tokens select
// the first page; tokens past the end select the last page.
package pagination

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Page describes one page of a listing.
type Page struct {
	Number     int `json:"number"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// TotalPages returns the number of pages for total items, never less than 1.
func TotalPages(total, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}

// ParseNumber converts a page token to a positive integer, or 1.
func ParseNumber(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Resolve clamps the page token against total items.
func Resolve(raw string, total, perPage int) Page {
	pages := TotalPages(total, perPage)
	n := min(ParseNumber(raw), pages)
	return Page{Number: n, PerPage: perPage, TotalItems: total, TotalPages: pages}
}

// Offset returns the index of the first item on the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// Limit returns the page size.
func (p Page) Limit() int {
	return p.PerPage
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a next page exists.
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// Prev returns the previous page number.
func (p Page) Prev() int { return p.Number - 1 }

// Next returns the next page number.
func (p Page) Next() int { return p.Number + 1 }

// ShouldShow reports whether pagination controls are needed.
func (p Page) ShouldShow() bool { return p.TotalPages > 1 }

// Numbers returns up to five page numbers centered on the current page.
func (p Page) Numbers() []int {
	start := max(p.Number-2, 1)
	end := min(start+4, p.TotalPages)
	start = max(end-4, 1)

	nums := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		nums = append(nums, i)
	}
	return nums
}

// URL returns base with query's parameters plus page=n. Existing page
// values in query are replaced.
func URL(base string, query url.Values, n int) string {
	params := make(url.Values, len(query)+1)
	for k, v := range query {
		if k != "page" && len(v) > 0 && v[0] != "" {
			params[k] = v
		}
	}
	params.Set("page", strconv.Itoa(n))
	return fmt.Sprintf("%s?%s", base, params.Encode())
}
