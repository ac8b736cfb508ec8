// Package handlers serves the public site: locale-prefixed pages answered with the
// page protocol, htmx fragments for the hero carousel and the photo lightbox, and
// the language switch.
package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"finitefield.org/konstruksi-web/internal/content"
	"finitefield.org/konstruksi-web/internal/i18n"
	"finitefield.org/konstruksi-web/internal/inertia"
	mw "finitefield.org/konstruksi-web/internal/middleware"
	"finitefield.org/konstruksi-web/internal/nav"
	"finitefield.org/konstruksi-web/internal/observability"
	"finitefield.org/konstruksi-web/internal/pages"
	"finitefield.org/konstruksi-web/internal/site"
	"finitefield.org/konstruksi-web/internal/view"
)

// FeaturedLimit caps the home page gallery.
const FeaturedLimit = 3

// Deps are the collaborators of the public site.
type Deps struct {
	Bundle       *i18n.Bundle
	Profile      content.Profile
	Catalog      content.Catalog
	Pages        *pages.Registry
	View         *view.Renderer
	Metrics      *observability.Metrics
	BaseURL      string
	AssetVersion string
	Analytics    view.Analytics
	// Now defaults to time.Now.
	Now func() time.Time
}

// Site serves the public pages.
type Site struct {
	deps Deps
}

// New returns the public site handlers. A nil Pages uses the standard registration table.
func New(d Deps) *Site {
	if d.Pages == nil {
		d.Pages = site.NewRegistry()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Site{deps: d}
}

// Routes mounts the public routes on r. r must run the Session, CSRF and Locale
// middleware.
func (s *Site) Routes(r chi.Router) {
	r.Get("/", s.Root)
	r.Get("/lang/{code}", s.SwitchLanguage)
	r.Route("/{locale}", func(r chi.Router) {
		r.Use(s.localePrefix)
		r.Get("/", s.Page(site.Welcome, s.welcomeProps))
		r.Get("/about", s.Page(site.AboutIndex, nil))
		r.Get("/about/structure", s.Page(site.AboutStructure, s.structureProps))
		r.Get("/services", s.Page(site.ServicesIndex, s.servicesProps))
		r.Get("/projects", s.Page(site.ProjectsIndex, s.projectsProps))
		r.Get("/projects/{slug}", s.Page(site.ProjectsShow, s.projectProps))
		r.Get("/projects/{slug}/photos/{index}", s.LightboxFragment)
		r.Get("/articles", s.Page(site.ArticlesIndex, s.articlesProps))
		r.Get("/articles/{slug}", s.Page(site.ArticlesShow, s.articleProps))
		r.Get("/fragments/hero", s.HeroFragment)
		r.NotFound(s.NotFound)
	})
}

// Root sends / to the home page of the stored language.
func (s *Site) Root(w http.ResponseWriter, r *http.Request) {
	inertia.Redirect(w, r, nav.Path(s.service(r).Locale()))
}

// localePrefix validates the {locale} segment and adopts it as the preference.
func (s *Site) localePrefix(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l, ok := i18n.ParseLocale(chi.URLParam(r, "locale"))
		if !ok || string(l) != chi.URLParam(r, "locale") {
			s.NotFound(w, r)
			return
		}
		st := mw.LocaleStore(r.Context())
		if st == nil {
			st = i18n.NewStore(s.deps.Bundle, nil)
			r = r.WithContext(mw.WithLocaleStore(r.Context(), st))
		}
		st.SetLocale(l)
		next.ServeHTTP(w, r)
	})
}

// service returns the request's locale store. Outside the Locale middleware it is
// a store without persistence.
func (s *Site) service(r *http.Request) i18n.Service {
	if st := mw.LocaleStore(r.Context()); st != nil {
		return st
	}
	return i18n.NewStore(s.deps.Bundle, nil)
}
