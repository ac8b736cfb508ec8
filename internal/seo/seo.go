package seo

import "strings"

type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	URL         string
	SiteName    string
}

// Alternate is one hreflang link.
type Alternate struct {
	Href     string
	Hreflang string
}

type Meta struct {
	Title       string
	Description string
	Canonical   string
	OG          OpenGraph
	Alternates  []Alternate
}

// Absolute joins baseURL and an absolute path. An empty baseURL leaves p unchanged.
func Absolute(baseURL, p string) string {
	if baseURL == "" || p == "" {
		return p
	}
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(p, "/")
}
