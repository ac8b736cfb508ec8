package view

import (
	"bytes"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"finitefield.org/konstruksi-web/internal/content"
	"finitefield.org/konstruksi-web/internal/i18n"
	"finitefield.org/konstruksi-web/internal/layout"
	"finitefield.org/konstruksi-web/internal/sections"
	"finitefield.org/konstruksi-web/internal/testutil"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(Options{})
	require.NoError(t, err)
	return r
}

func svc() i18n.Service {
	return i18n.Fixed{Bundle: i18n.MustLoadEmbedded(), Lang: i18n.English}
}

func TestPageRendersShellInOrder(t *testing.T) {
	r := newRenderer(t)
	s := svc()
	doc := layout.Compose(s, layout.Options{HeaderTitle: "About Us"},
		sections.CTA(s, content.Company{Email: "info@example.com"}),
		sections.Stats(s, []content.Stat{{LabelKey: "stats.years", Value: 26}}),
	)
	var buf bytes.Buffer
	err := r.Page(&buf, PageData{
		HTMLLang: "en-US",
		Doc:      doc,
		Footer:   sections.Footer(s, content.Company{Name: "BKN", Address: "Jl. Sudirman 1"}, testNow),
		Toast:    &layout.Toast{Message: "Saved", Severity: layout.SeveritySuccess},
		PageJSON: `{"component":"About/Index"}`,
	})
	require.NoError(t, err)

	dom := testutil.ParseHTML(t, buf.Bytes())
	require.Equal(t, "About Us | Bangun Karya Nusantara", dom.Find("title").Text())
	require.Equal(t, 1, dom.Find("nav#navbar.navbar--transparent").Length())
	require.Equal(t, "About Us", dom.Find(".page-header__title").Text())
	require.Equal(t, "About Us", dom.Find(".breadcrumbs [aria-current=page]").Text())
	require.Equal(t, 0, dom.Find(".breadcrumbs a").Length())

	var order []string
	dom.Find("#app").Children().Each(func(_ int, sel *goquery.Selection) {
		order = append(order, goquery.NodeName(sel))
	})
	require.Equal(t, []string{"nav", "header", "main", "footer", "div"}, order)

	var inMain []string
	dom.Find("main").Children().Each(func(_ int, sel *goquery.Selection) {
		inMain = append(inMain, sel.AttrOr("class", ""))
	})
	require.Equal(t, []string{"cta", "stats"}, inMain)

	require.Equal(t, "Jl. Sudirman 1", dom.Find("footer address").Text())
	require.Equal(t, "Saved", dom.Find("#toast .toast--success span").Text())
	require.Equal(t, `{"component":"About/Index"}`, dom.Find("#app").AttrOr("data-page", ""))
}

func TestPageWithoutHeaderTitle(t *testing.T) {
	r := newRenderer(t)
	var buf bytes.Buffer
	require.NoError(t, r.Page(&buf, PageData{Doc: layout.Compose(svc(), layout.Options{})}))

	dom := testutil.ParseHTML(t, buf.Bytes())
	require.Equal(t, 0, dom.Find("header.page-header").Length())
	require.Equal(t, 0, dom.Find("nav.navbar--transparent").Length())
	require.Equal(t, 0, dom.Find("#toast .toast").Length())
}

func TestSectionFragment(t *testing.T) {
	r := newRenderer(t)
	s := svc()
	slides := []content.Slide{{Image: "/a.jpg"}, {Image: "/b.jpg"}}
	c := sections.NewCarousel(2)

	var buf bytes.Buffer
	require.NoError(t, r.Section(&buf, sections.Hero(s, slides, c)))
	dom := testutil.ParseHTML(t, buf.Bytes())
	hero := dom.Find("section#hero")
	require.Equal(t, 1, hero.Length())
	require.Equal(t, "every 6s", hero.AttrOr("hx-trigger", ""))
	require.Equal(t, 2, dom.Find(".hero__dots button").Length())

	c.TogglePause()
	buf.Reset()
	require.NoError(t, r.Section(&buf, sections.Hero(s, slides, c)))
	dom = testutil.ParseHTML(t, buf.Bytes())
	_, polling := dom.Find("section#hero").Attr("hx-trigger")
	require.False(t, polling)
}

func TestEmptyProjectsGridHasNoCardsOrPager(t *testing.T) {
	r := newRenderer(t)
	s := svc()
	page := content.Paginate([]content.Project(nil), content.Query{})

	var buf bytes.Buffer
	require.NoError(t, r.Section(&buf, sections.ProjectsGrid(s, page)))
	dom := testutil.ParseHTML(t, buf.Bytes())
	require.Equal(t, 0, dom.Find(".project-card").Length())
	require.Equal(t, 0, dom.Find(".pagination").Length())
	require.Equal(t, s.T("projects.empty"), dom.Find(".empty-state").Text())
}

func TestErrorPage(t *testing.T) {
	r := newRenderer(t)
	var buf bytes.Buffer
	require.NoError(t, r.Error(&buf, ErrorData{Status: 500, Message: "page not found: Nope", HomeHref: "/id", HomeLabel: "Beranda"}))
	dom := testutil.ParseHTML(t, buf.Bytes())
	require.Equal(t, "500", dom.Find("h1").Text())
	require.Equal(t, "page not found: Nope", dom.Find("main p").First().Text())
}

func TestUnknownSectionFails(t *testing.T) {
	r := newRenderer(t)
	require.False(t, r.Has("section/nope"))
	require.True(t, r.Has(sections.TemplateHero))
	var buf bytes.Buffer
	require.Error(t, r.Section(&buf, layout.Section{Template: "section/nope"}))
	require.Zero(t, buf.Len())
}

var testNow = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
