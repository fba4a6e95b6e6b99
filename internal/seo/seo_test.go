// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package seo

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitemapBuilder(t *testing.T) {
	b := NewSitemapBuilder("https://example.com/")
	b.AddHomepage()
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	b.AddProject("/projects/abc/", created)
	b.AddPost("/blog/hello/", time.Time{})

	out, err := b.Build()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), xml.Header))

	var doc Sitemap
	require.NoError(t, xml.Unmarshal(out, &doc))
	require.Len(t, doc.URLs, 3)

	assert.Equal(t, "https://example.com/", doc.URLs[0].Loc)
	assert.Equal(t, "https://example.com/projects/abc/", doc.URLs[1].Loc)
	assert.Equal(t, ChangeFreqMonthly, doc.URLs[1].ChangeFreq)
	assert.Equal(t, "0.8", doc.URLs[1].Priority)
	assert.Equal(t, "2026-01-02T03:04:05Z", doc.URLs[1].LastMod)
	assert.Equal(t, ChangeFreqWeekly, doc.URLs[2].ChangeFreq)
	assert.Equal(t, "0.5", doc.URLs[2].Priority)
	assert.Empty(t, doc.URLs[2].LastMod)
}

func TestBuildRSS(t *testing.T) {
	pub := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)
	out, err := BuildRSS("https://example.com", "/blog/feed/", Feed{
		Title:       "Blog",
		Path:        "/blog/",
		Description: "Latest posts",
		Items: []FeedItem{
			{Title: "Hello & welcome", Path: "/blog/hello/", Description: "<p>excerpt</p>", Published: pub, Categories: []string{"go"}},
		},
	})
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, `<rss version="2.0"`)
	assert.Contains(t, s, "<link>https://example.com/blog/</link>")
	assert.Contains(t, s, "<title>Hello &amp; welcome</title>")
	assert.Contains(t, s, "&lt;p&gt;excerpt&lt;/p&gt;")
	assert.Contains(t, s, `<guid isPermaLink="true">https://example.com/blog/hello/</guid>`)
	assert.Contains(t, s, "<pubDate>Tue, 03 Feb 2026 10:00:00 +0000</pubDate>")
	assert.Contains(t, s, "<category>go</category>")
	assert.Contains(t, s, `href="https://example.com/blog/feed/"`)
}

func TestBuildRSSEmpty(t *testing.T) {
	out, err := BuildRSS("https://example.com", "/blog/feed/", Feed{Title: "Blog", Path: "/blog/"})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<item>")
	assert.NotContains(t, string(out), "lastBuildDate")
}
