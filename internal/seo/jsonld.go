package seo

import (
	"encoding/json"
	"html/template"
)

// JSON marshals v to a compact JSON string. It returns an empty string on error.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// Script marshals v for embedding inside <script type="application/ld+json">.
// html/template escapes "<" etc. inside script bodies, so plain JSON is enough.
func Script(v any) template.JS {
	return template.JS(JSON(v))
}

// Organization returns a minimal Organization schema.
func Organization(name, url, logoURL string, address string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Organization",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if logoURL != "" {
		m["logo"] = logoURL
	}
	if address != "" {
		m["address"] = map[string]any{"@type": "PostalAddress", "streetAddress": address}
	}
	return m
}

// BreadcrumbItem maps name and absolute item URL. Item may be empty for the current page.
type BreadcrumbItem struct {
	Name string
	Item string
}

// BreadcrumbList builds schema.org BreadcrumbList.
func BreadcrumbList(items []BreadcrumbItem) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for i, it := range items {
		entry := map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     it.Name,
		}
		if it.Item != "" {
			entry["item"] = it.Item
		}
		el = append(el, entry)
	}
	return map[string]any{
		"@context":        "https://schema.org",
		"@type":           "BreadcrumbList",
		"itemListElement": el,
	}
}

// Article returns a minimal Article schema payload.
func Article(headline, url, imageURL, authorName, datePublished string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Article",
		"headline": headline,
	}
	if url != "" {
		m["url"] = url
	}
	if imageURL != "" {
		m["image"] = imageURL
	}
	if authorName != "" {
		m["author"] = map[string]any{"@type": "Person", "name": authorName}
	}
	if datePublished != "" {
		m["datePublished"] = datePublished
	}
	return m
}
