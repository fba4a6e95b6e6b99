// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package seo

import (
	"encoding/xml"
	"strings"
	"time"
)

// FeedItem is one entry of an RSS feed.
type FeedItem struct {
	Title       string
	Path        string
	Description string
	Published   time.Time
	Categories  []string
}

// Feed describes an RSS 2.0 channel.
type Feed struct {
	Title       string
	Path        string
	Description string
	Items       []FeedItem
}

type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Atom    string     `xml:"xmlns:atom,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	AtomLink      atomLink  `xml:"atom:link"`
	Language      string    `xml:"language,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	GUID        rssGUID  `xml:"guid"`
	PubDate     string   `xml:"pubDate,omitempty"`
	Categories  []string `xml:"category"`
}

type rssGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

// BuildRSS renders f as an RSS 2.0 document with absolute links under
// siteURL. selfPath is the feed's own path, advertised via atom:link.
func BuildRSS(siteURL, selfPath string, f Feed) ([]byte, error) {
	base := strings.TrimRight(siteURL, "/")
	ch := rssChannel{
		Title:       f.Title,
		Link:        base + f.Path,
		Description: f.Description,
		AtomLink:    atomLink{Href: base + selfPath, Rel: "self", Type: "application/rss+xml"},
		Language:    "en-us",
	}

	var latest time.Time
	for _, it := range f.Items {
		link := base + it.Path
		item := rssItem{
			Title:       it.Title,
			Link:        link,
			Description: it.Description,
			GUID:        rssGUID{Value: link, IsPermaLink: true},
			Categories:  it.Categories,
		}
		if !it.Published.IsZero() {
			item.PubDate = it.Published.UTC().Format(time.RFC1123Z)
			if it.Published.After(latest) {
				latest = it.Published
			}
		}
		ch.Items = append(ch.Items, item)
	}
	if !latest.IsZero() {
		ch.LastBuildDate = latest.UTC().Format(time.RFC1123Z)
	}

	out := []byte(xml.Header)
	body, err := xml.MarshalIndent(rssDoc{Version: "2.0", Atom: "http://www.w3.org/2005/Atom", Channel: ch}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, body...), nil
}
