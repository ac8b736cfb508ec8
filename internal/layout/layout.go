// Package layout composes the shell shared by every public page: navbar, header band,
// breadcrumbs, sections, footer and toast.
package layout

import (
	"strings"

	"finitefield.org/konstruksi-web/internal/i18n"
	"finitefield.org/konstruksi-web/internal/nav"
	"finitefield.org/konstruksi-web/internal/seo"
)

// DefaultBackground is the header band image used when a page sets none.
const DefaultBackground = "/assets/img/header-default.jpg"

// Section is one rendered area of a page: the name of a template and its data.
type Section struct {
	Template string
	Data     any
}

// Options are the per-page shell inputs.
type Options struct {
	Title          string
	HeaderTitle    string
	Breadcrumbs    []nav.Crumb
	Background     string
	HidePageHeader bool
	TransparentNav bool
	HeaderFixed    bool
	Description    string
	// StructuredData holds extra JSON-LD objects, e.g. an Organization or Article.
	StructuredData []any
}

// Document is the composed page, ready for the view layer.
type Document struct {
	// Title is the full <title> text.
	Title          string
	HeaderTitle    string
	Breadcrumbs    []nav.Crumb
	Background     string
	ShowHeader     bool
	NavTransparent bool
	HeaderFixed    bool
	Description    string
	Sections       []Section
	StructuredData []any
}

// Compose applies the shell defaults to opts.
func Compose(svc i18n.Service, opts Options, sections ...Section) Document {
	header := strings.TrimSpace(opts.HeaderTitle)
	effective := strings.TrimSpace(opts.Title)
	if effective == "" {
		effective = header
	}
	if effective == "" {
		effective = defaultTitle(svc)
	}

	crumbs := append([]nav.Crumb(nil), opts.Breadcrumbs...)
	if len(crumbs) == 0 && header != "" {
		crumbs = []nav.Crumb{{Label: header}}
	}

	bg := strings.TrimSpace(opts.Background)
	if bg == "" {
		bg = DefaultBackground
	}

	desc := strings.TrimSpace(opts.Description)
	if desc == "" {
		desc = svc.T("site.description")
	}

	return Document{
		Title:          effective + " | " + svc.T("site.name"),
		HeaderTitle:    header,
		Breadcrumbs:    crumbs,
		Background:     bg,
		ShowHeader:     !opts.HidePageHeader && header != "",
		NavTransparent: header != "" || opts.TransparentNav,
		HeaderFixed:    opts.HeaderFixed,
		Description:    desc,
		Sections:       append([]Section(nil), sections...),
		StructuredData: append([]any(nil), opts.StructuredData...),
	}
}

// defaultTitle is the translated site title with its " | tagline" suffix removed.
func defaultTitle(svc i18n.Service) string {
	t := svc.T("site.title")
	if i := strings.Index(t, " | "); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}

// BreadcrumbList returns the schema.org BreadcrumbList of the effective trail,
// or nil when the trail is empty. Relative hrefs are made absolute against baseURL.
func (d Document) BreadcrumbList(baseURL string) map[string]any {
	if len(d.Breadcrumbs) == 0 {
		return nil
	}
	items := make([]seo.BreadcrumbItem, 0, len(d.Breadcrumbs))
	for _, c := range d.Breadcrumbs {
		items = append(items, seo.BreadcrumbItem{Name: c.Label, Item: seo.Absolute(baseURL, c.Href)})
	}
	return seo.BreadcrumbList(items)
}
