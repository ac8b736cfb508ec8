package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"finitefield.org/konstruksi-web/internal/layout"
	mw "finitefield.org/konstruksi-web/internal/middleware"
	"finitefield.org/konstruksi-web/internal/nav"
	"finitefield.org/konstruksi-web/internal/observability"
	"finitefield.org/konstruksi-web/internal/sections"
)

// HeroFragment applies one carousel transition to the state in the query and
// returns the hero section.
func (s *Site) HeroFragment(w http.ResponseWriter, r *http.Request) {
	svc := s.service(r)
	i, _, err := intParam(r, "i")
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	paused := r.URL.Query().Get("paused") == "1"
	slides := s.deps.Profile.Slides

	c := sections.RestoreCarousel(len(slides), i, paused)
	if op := r.URL.Query().Get("op"); op != "" && !c.Apply(op) {
		s.fail(w, r, http.StatusBadRequest, "unknown carousel operation: "+op)
		return
	}
	s.fragment(w, r, sections.Hero(svc, slides, c))
}

// LightboxFragment opens photo {index} of a project; a negative index closes the
// lightbox. Plain browser requests are sent to the project page instead.
func (s *Site) LightboxFragment(w http.ResponseWriter, r *http.Request) {
	svc := s.service(r)
	slug := chi.URLParam(r, "slug")
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		s.NotFound(w, r)
		return
	}
	p, err := s.deps.Catalog.ProjectBySlug(r.Context(), slug)
	if err != nil {
		s.loadFailed(w, r, "Projects/Show", err)
		return
	}
	if !mw.IsHTMX(r.Context()) {
		target := nav.Path(svc.Locale(), "projects", p.Slug)
		if i >= 0 && i < len(p.Photos) {
			target += "?photo=" + strconv.Itoa(i)
		}
		http.Redirect(w, r, target, http.StatusFound)
		return
	}

	lb := sections.NewLightbox(len(p.Photos))
	lb.Open(i)
	s.fragment(w, r, sections.LightboxSection(svc, p.Slug, p.Photos, lb))
}

func (s *Site) fragment(w http.ResponseWriter, r *http.Request, sec layout.Section) {
	var buf bytes.Buffer
	if err := s.deps.View.Section(&buf, sec); err != nil {
		observability.FromContext(r.Context()).Error("render fragment",
			zap.String("template", sec.Template), zap.Error(err))
		s.fail(w, r, http.StatusInternalServerError, s.service(r).T("error.internal"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}
