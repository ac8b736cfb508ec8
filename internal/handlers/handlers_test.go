package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"

	"finitefield.org/konstruksi-web/internal/content"
	"finitefield.org/konstruksi-web/internal/i18n"
	"finitefield.org/konstruksi-web/internal/inertia"
	"finitefield.org/konstruksi-web/internal/layout"
	mw "finitefield.org/konstruksi-web/internal/middleware"
	"finitefield.org/konstruksi-web/internal/observability"
	"finitefield.org/konstruksi-web/internal/testutil"
	"finitefield.org/konstruksi-web/internal/view"
)

const testBaseURL = "https://bkn.test"

// newTestRouter builds a router similar to the server's, optionally adding extra routes.
func newTestRouter(t *testing.T, add func(r chi.Router, s *Site)) http.Handler {
	t.Helper()
	seed, err := content.LoadSeed()
	require.NoError(t, err)
	renderer, err := view.New(view.Options{})
	require.NoError(t, err)
	bundle := i18n.MustLoadEmbedded()

	s := New(Deps{
		Bundle:       bundle,
		Profile:      seed.Profile,
		Catalog:      content.NewMemoryCatalog(seed.Projects, seed.Articles),
		View:         renderer,
		Metrics:      observability.NewMetrics(),
		BaseURL:      testBaseURL,
		AssetVersion: "v1",
		Now:          func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) },
	})

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(mw.HTMX)
	r.Use(mw.Session(mw.SessionOptions{SigningKey: []byte("test-signing-key")}))
	r.Use(mw.CSRF(false))
	r.Use(mw.Locale(bundle, false))
	r.Use(mw.Scope)
	r.Use(inertia.VersionCheck(func() string { return "v1" }))
	if add != nil {
		add(r, s)
	}
	s.Routes(r)
	return r
}

func get(t *testing.T, h http.Handler, target string, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, m := range mutate {
		m(req)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func withCookie(name, value string) func(*http.Request) {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: name, Value: value}) }
}

func withHeader(name, value string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set(name, value) }
}

func cookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRootRedirectsToStoredLocale(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := get(t, h, "/")
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/id", rec.Header().Get("Location"))

	rec = get(t, h, "/", withCookie(mw.LocaleCookieName, "en"))
	require.Equal(t, "/en", rec.Header().Get("Location"))

	rec = get(t, h, "/", withCookie(mw.LocaleCookieName, "de"))
	require.Equal(t, "/id", rec.Header().Get("Location"))
}

func TestAboutPageHTML(t *testing.T) {
	h := newTestRouter(t, nil)
	rec := get(t, h, "/en/about")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "en-US", rec.Header().Get("Content-Language"))

	lang := cookie(rec, mw.LocaleCookieName)
	require.NotNil(t, lang, "visiting an /en page persists the preference")
	require.Equal(t, "en", lang.Value)

	dom := testutil.ParseHTML(t, rec.Body.Bytes())
	require.Equal(t, "About Us | Bangun Karya Nusantara", dom.Find("title").Text())
	require.Equal(t, "en-US", dom.Find("html").AttrOr("lang", ""))
	require.Equal(t, testBaseURL+"/en/about", dom.Find(`link[rel=canonical]`).AttrOr("href", ""))
	require.Equal(t, testBaseURL+"/id/about", dom.Find(`link[hreflang=id-ID]`).AttrOr("href", ""))
	require.Equal(t, testBaseURL+"/id/about", dom.Find(`link[hreflang=x-default]`).AttrOr("href", ""))
	require.Equal(t, "About Us", dom.Find(".breadcrumbs [aria-current=page]").Text())
	require.Equal(t, "/en", dom.Find(".breadcrumbs a").AttrOr("href", ""))
	require.Equal(t, 1, dom.Find("main .profile").Length())
	require.Contains(t, dom.Find("footer address").Text(), "Jakarta")
	require.Contains(t, dom.Find(".footer__rights").Text(), "2026")
	require.Equal(t, "/lang/id?to=%2Fen%2Fabout", dom.Find(`.navbar__lang a[hreflang=id]`).AttrOr("href", ""))

	var payload inertia.Page
	require.NoError(t, json.Unmarshal([]byte(dom.Find("#app").AttrOr("data-page", "")), &payload))
	require.Equal(t, "About/Index", payload.Component)
	require.Equal(t, "en", payload.Props["locale"])

	var crumbs bool
	dom.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		if strings.Contains(s.Text(), "BreadcrumbList") {
			crumbs = true
		}
	})
	require.True(t, crumbs)
}

func TestPageProtocolJSON(t *testing.T) {
	h := newTestRouter(t, nil)
	rec := get(t, h, "/en/projects?page=2", withHeader(inertia.HeaderInertia, "true"), withHeader(inertia.HeaderVersion, "v1"))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "true", rec.Header().Get(inertia.HeaderInertia))

	var page struct {
		Component string `json:"component"`
		URL       string `json:"url"`
		Version   string `json:"version"`
		Props     struct {
			Locale   string                           `json:"locale"`
			Company  content.Company                  `json:"company"`
			Flash    *layout.Toast                    `json:"flash"`
			Projects content.Page[content.Project] `json:"projects"`
		} `json:"props"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Equal(t, "Projects/Index", page.Component)
	require.Equal(t, "/en/projects?page=2", page.URL)
	require.Equal(t, "v1", page.Version)
	require.Equal(t, "en", page.Props.Locale)
	require.Equal(t, "PT Bangun Karya Nusantara", page.Props.Company.Name)
	require.Nil(t, page.Props.Flash)
	require.Equal(t, 2, page.Props.Projects.Page)
	require.Len(t, page.Props.Projects.Items, 1)
	require.Equal(t, 10, page.Props.Projects.Total)
}

func TestStaleAssetVersionForcesReload(t *testing.T) {
	h := newTestRouter(t, nil)
	rec := get(t, h, "/en/about", withHeader(inertia.HeaderInertia, "true"), withHeader(inertia.HeaderVersion, "v0"))
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "/en/about", rec.Header().Get(inertia.HeaderLocation))
}

func TestUnknownPageIdentifierIs500(t *testing.T) {
	h := newTestRouter(t, func(r chi.Router, s *Site) {
		r.Get("/en/careers", s.Page("Careers", nil))
	})
	rec := get(t, h, "/en/careers")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "page not found: Careers")

	rec = get(t, h, "/en/careers", withHeader(inertia.HeaderInertia, "true"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body mw.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "page not found: Careers", body.Message)
	require.NotEmpty(t, body.RequestID)
}

func TestUnsupportedLocalePrefixIs404(t *testing.T) {
	h := newTestRouter(t, nil)
	require.Equal(t, http.StatusNotFound, get(t, h, "/fr/about").Code)
	require.Equal(t, http.StatusNotFound, get(t, h, "/EN/about").Code)
	require.Equal(t, http.StatusNotFound, get(t, h, "/en/nothing-here").Code)
	require.Equal(t, http.StatusNotFound, get(t, h, "/en/projects/no-such-project").Code)
	require.Equal(t, http.StatusBadRequest, get(t, h, "/en/projects?page=two").Code)
}

func TestSwitchLanguage(t *testing.T) {
	h := newTestRouter(t, nil)
	rec := get(t, h, "/lang/en?to=%2Fid%2Fprojects%3Fpage%3D2")
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/en/projects?page=2", rec.Header().Get("Location"))
	require.Equal(t, "en", cookie(rec, mw.LocaleCookieName).Value)

	rec = get(t, h, "/lang/xx?to=/en/about", withCookie(mw.LocaleCookieName, "en"))
	require.Equal(t, "/en/about", rec.Header().Get("Location"))
	require.Nil(t, cookie(rec, mw.LocaleCookieName))

	rec = get(t, h, "/lang/id?to=//evil.example/")
	require.Equal(t, "/id", rec.Header().Get("Location"))

	rec = get(t, h, "/lang/en?to=/id/about", withHeader(inertia.HeaderInertia, "true"))
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "/en/about", rec.Header().Get(inertia.HeaderLocation))
}

func TestHeroFragment(t *testing.T) {
	h := newTestRouter(t, nil)
	rec := get(t, h, "/en/fragments/hero?i=2&paused=0&op=next", withHeader("HX-Request", "true"))
	require.Equal(t, http.StatusOK, rec.Code)
	dom := testutil.ParseHTML(t, rec.Body.Bytes())
	hero := dom.Find("section#hero")
	require.Equal(t, "0", hero.AttrOr("data-index", ""))
	require.Equal(t, "every 6s", hero.AttrOr("hx-trigger", ""))
	require.Equal(t, 0, dom.Find("nav#navbar").Length())

	rec = get(t, h, "/en/fragments/hero?i=1&paused=0&op=toggle", withHeader("HX-Request", "true"))
	dom = testutil.ParseHTML(t, rec.Body.Bytes())
	require.Equal(t, "1", dom.Find("section#hero").AttrOr("data-index", ""))
	_, polling := dom.Find("section#hero").Attr("hx-trigger")
	require.False(t, polling)

	rec = get(t, h, "/en/fragments/hero?i=1&paused=1&op=tick", withHeader("HX-Request", "true"))
	dom = testutil.ParseHTML(t, rec.Body.Bytes())
	require.Equal(t, "1", dom.Find("section#hero").AttrOr("data-index", ""), "tick does nothing while paused")

	rec = get(t, h, "/en/fragments/hero?i=0&op=spin", withHeader("HX-Request", "true"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLightboxFragment(t *testing.T) {
	h := newTestRouter(t, nil)
	rec := get(t, h, "/en/projects/menara-sudirman/photos/1", withHeader("HX-Request", "true"))
	require.Equal(t, http.StatusOK, rec.Code)
	dom := testutil.ParseHTML(t, rec.Body.Bytes())
	require.Equal(t, "2 / 3", dom.Find("#lightbox figcaption").Text())
	require.Equal(t, "/en/projects/menara-sudirman/photos/2", dom.Find(".lightbox__next").AttrOr("hx-get", ""))
	require.Equal(t, "/en/projects/menara-sudirman/photos/0", dom.Find(".lightbox__prev").AttrOr("hx-get", ""))

	rec = get(t, h, "/en/projects/menara-sudirman/photos/-1", withHeader("HX-Request", "true"))
	dom = testutil.ParseHTML(t, rec.Body.Bytes())
	require.False(t, dom.Find("#lightbox").HasClass("is-open"))

	rec = get(t, h, "/en/projects/menara-sudirman/photos/1")
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/en/projects/menara-sudirman?photo=1", rec.Header().Get("Location"))

	rec = get(t, h, "/en/projects/menara-sudirman?photo=1")
	dom = testutil.ParseHTML(t, rec.Body.Bytes())
	require.Equal(t, "Sudirman Office Tower", dom.Find(".page-header__title").Text())
	require.True(t, dom.Find("#lightbox").HasClass("is-open"))
}

func TestProjectsPagination(t *testing.T) {
	h := newTestRouter(t, nil)
	dom := testutil.ParseHTML(t, get(t, h, "/en/projects").Body.Bytes())
	require.Equal(t, 9, dom.Find(".project-card").Length())
	require.Equal(t, "/en/projects?page=2", dom.Find(".pagination__next").AttrOr("href", ""))

	dom = testutil.ParseHTML(t, get(t, h, "/en/projects?page=2").Body.Bytes())
	require.Equal(t, 1, dom.Find(".project-card").Length())
	require.Equal(t, 0, dom.Find(".pagination__next").Length())
}

func TestProjectsHugePageDegradesToEmptyState(t *testing.T) {
	h := newTestRouter(t, nil)
	rec := get(t, h, "/en/projects?page=1025819115206086202")
	require.Equal(t, http.StatusOK, rec.Code)

	dom := testutil.ParseHTML(t, rec.Body.Bytes())
	require.Equal(t, 0, dom.Find(".project-card").Length())
	require.Equal(t, 1, dom.Find(".empty-state").Length())
	require.Equal(t, "/en/projects?page=2", dom.Find(".pagination__prev").AttrOr("href", ""))

	rec = get(t, h, "/en/articles?page=1025819115206086202")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestStructureUsesViewportHint(t *testing.T) {
	h := newTestRouter(t, nil)
	dom := testutil.ParseHTML(t, get(t, h, "/id/about/structure", withHeader("Sec-CH-Viewport-Width", "600")).Body.Bytes())
	canvas := dom.Find("#org-chart")
	require.True(t, canvas.HasClass("is-compact"))
	require.Contains(t, canvas.AttrOr("data-org-chart", ""), `"compact":true`)
	require.Contains(t, dom.Find("noscript").Text(), "Direktur Utama")
	require.Equal(t, "44", dom.Find("#navbar").AttrOr("data-scroll-threshold", ""))
	require.False(t, dom.Find("#navbar").HasClass("navbar--scrolled"))

	dom = testutil.ParseHTML(t, get(t, h, "/id/about/structure").Body.Bytes())
	require.False(t, dom.Find("#org-chart").HasClass("is-compact"))
}

func TestViewportWidth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Equal(t, 1280, ViewportWidth(req))
	req.Header.Set("Viewport-Width", "900")
	require.Equal(t, 900, ViewportWidth(req))
	req.Header.Set("Sec-CH-Viewport-Width", "375")
	require.Equal(t, 375, ViewportWidth(req))
	req.Header.Set("Sec-CH-Viewport-Width", "wide")
	require.Equal(t, 900, ViewportWidth(req))
}

func TestArticlePage(t *testing.T) {
	h := newTestRouter(t, nil)
	rec := get(t, h, "/en/articles/beton-pracetak")
	require.Equal(t, http.StatusOK, rec.Code)
	dom := testutil.ParseHTML(t, rec.Body.Bytes())
	require.Contains(t, dom.Find(".article__body").Text(), "Precast elements")
	require.Equal(t, "article", dom.Find(`meta[property="og:type"]`).AttrOr("content", ""))

	var kinds []string
	dom.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var v map[string]any
		require.NoError(t, json.Unmarshal([]byte(s.Text()), &v))
		kinds = append(kinds, v["@type"].(string))
	})
	require.Equal(t, []string{"Article", "BreadcrumbList"}, kinds)
}

func TestHomeCarriesOrganization(t *testing.T) {
	h := newTestRouter(t, nil)
	rec := get(t, h, "/id")
	require.Equal(t, http.StatusOK, rec.Code)
	dom := testutil.ParseHTML(t, rec.Body.Bytes())
	require.Equal(t, 1, dom.Find("section#hero").Length())
	require.Equal(t, 0, dom.Find("header.page-header").Length())
	require.True(t, dom.Find("#navbar").HasClass("navbar--transparent"))
	require.Equal(t, FeaturedLimit, dom.Find(".featured .project-card").Length())
	require.Contains(t, dom.Find(`script[type="application/ld+json"]`).First().Text(), `"Organization"`)
}

func TestFlashBecomesToast(t *testing.T) {
	h := newTestRouter(t, func(r chi.Router, _ *Site) {
		r.Get("/flash", func(w http.ResponseWriter, r *http.Request) {
			mw.GetSession(r).SetFlash("Record deleted.", layout.SeveritySuccess)
			http.Redirect(w, r, "/en/about", http.StatusSeeOther)
		})
	})
	rec := get(t, h, "/flash")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	session := cookie(rec, mw.SessionCookieName)
	require.NotNil(t, session)

	rec = get(t, h, "/en/about", withCookie(session.Name, session.Value))
	dom := testutil.ParseHTML(t, rec.Body.Bytes())
	require.Equal(t, "Record deleted.", dom.Find("#toast .toast--success span").Text())

	next := cookie(rec, mw.SessionCookieName)
	require.NotNil(t, next)
	rec = get(t, h, "/en/about", withCookie(next.Name, next.Value))
	dom = testutil.ParseHTML(t, rec.Body.Bytes())
	require.Equal(t, 0, dom.Find("#toast .toast").Length())
}
