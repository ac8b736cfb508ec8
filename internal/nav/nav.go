package nav

import (
	"path"
	"strings"

	"finitefield.org/konstruksi-web/internal/i18n"
)

// Item represents a top-level navigation item.
type Item struct {
	Slug     string // "" for the home page, e.g. "projects"
	LabelKey string // i18n key, e.g. "nav.projects"
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href   string
	Label  string
	Active bool
}

// Crumb is one breadcrumb entry. An empty Href marks the current page.
type Crumb struct {
	Label string
	Href  string
}

// Main is the primary navigation definition.
var Main = []Item{
	{Slug: "", LabelKey: "nav.home"},
	{Slug: "about", LabelKey: "nav.about"},
	{Slug: "services", LabelKey: "nav.services"},
	{Slug: "projects", LabelKey: "nav.projects"},
	{Slug: "articles", LabelKey: "nav.articles"},
}

// Path joins a locale prefix and slug segments into /{locale}/{slug...}.
func Path(l i18n.Locale, segments ...string) string {
	p := "/" + string(l)
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s == "" {
			continue
		}
		p += "/" + s
	}
	return p
}

// Build renders navigation items with labels for svc's locale and active state
// for currentPath.
func Build(svc i18n.Service, currentPath string) []RenderedItem {
	l := svc.Locale()
	items := make([]RenderedItem, 0, len(Main))
	for _, it := range Main {
		href := Path(l, it.Slug)
		items = append(items, RenderedItem{
			Href:   href,
			Label:  svc.T(it.LabelKey),
			Active: isActive(href, Path(l), currentPath),
		})
	}
	return items
}

func isActive(itemPath, homePath, currentPath string) bool {
	currentPath = strings.TrimRight(currentPath, "/")
	if currentPath == "" {
		currentPath = "/"
	}
	if itemPath == homePath {
		return currentPath == homePath
	}
	// match exact or prefix boundary: "/id/projects" or "/id/projects/..."
	if currentPath == itemPath {
		return true
	}
	return strings.HasPrefix(currentPath, itemPath+"/")
}

// SplitLocale separates the locale prefix from a path. ok is false when the first
// segment is not a supported locale.
func SplitLocale(p string) (i18n.Locale, string, bool) {
	clean := path.Clean("/" + p)
	trimmed := strings.TrimPrefix(clean, "/")
	first, rest, _ := strings.Cut(trimmed, "/")
	l, ok := i18n.ParseLocale(first)
	if !ok || first != string(l) {
		return "", clean, false
	}
	return l, "/" + rest, true
}

// SwitchLocale rewrites p to the same page under locale to. Paths without a locale
// prefix map to the target locale's home page.
func SwitchLocale(p string, to i18n.Locale) string {
	_, rest, ok := SplitLocale(p)
	if !ok {
		return Path(to)
	}
	return Path(to, rest)
}

// Home returns the home crumb for svc's locale.
func Home(svc i18n.Service) Crumb {
	return Crumb{Label: svc.T("nav.home"), Href: Path(svc.Locale())}
}

// Trail returns crumbs with the last one unlinked, so it reads as the current page.
func Trail(crumbs ...Crumb) []Crumb {
	if len(crumbs) == 0 {
		return nil
	}
	out := append([]Crumb(nil), crumbs...)
	out[len(out)-1].Href = ""
	return out
}
