package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"finitefield.org/konstruksi-web/internal/content"
	"finitefield.org/konstruksi-web/internal/i18n"
	"finitefield.org/konstruksi-web/internal/pages"
	"finitefield.org/konstruksi-web/internal/site"
)

type badRequestError struct {
	param string
	value string
}

func (e *badRequestError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.param, e.value)
}

// intParam parses an optional integer query parameter.
func intParam(r *http.Request, name string) (int, bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, &badRequestError{param: name, value: raw}
	}
	return n, true, nil
}

func pageQuery(r *http.Request) (content.Query, error) {
	n, _, err := intParam(r, "page")
	if err != nil {
		return content.Query{}, err
	}
	return content.Query{Page: n}, nil
}

func requestID(r *http.Request) string {
	return chimw.GetReqID(r.Context())
}

func (s *Site) welcomeProps(r *http.Request, _ i18n.Service) (pages.Props, error) {
	featured, err := s.deps.Catalog.FeaturedProjects(r.Context(), FeaturedLimit)
	if err != nil {
		return nil, err
	}
	p := s.deps.Profile
	return pages.Props{
		site.PropSlides:   p.Slides,
		site.PropStats:    p.Stats,
		site.PropServices: p.Services,
		site.PropFeatured: featured,
		site.PropHero:     site.HeroState{},
	}, nil
}

func (s *Site) structureProps(r *http.Request, _ i18n.Service) (pages.Props, error) {
	return pages.Props{
		site.PropMembers:  s.deps.Profile.Members,
		site.PropViewport: ViewportWidth(r),
	}, nil
}

func (s *Site) servicesProps(*http.Request, i18n.Service) (pages.Props, error) {
	return pages.Props{
		site.PropServices: s.deps.Profile.Services,
		site.PropPrices:   s.deps.Profile.Prices,
	}, nil
}

func (s *Site) projectsProps(r *http.Request, _ i18n.Service) (pages.Props, error) {
	q, err := pageQuery(r)
	if err != nil {
		return nil, err
	}
	page, err := s.deps.Catalog.ListProjects(r.Context(), q)
	if err != nil {
		return nil, err
	}
	return pages.Props{site.PropProjects: page}, nil
}

func (s *Site) projectProps(r *http.Request, _ i18n.Service) (pages.Props, error) {
	p, err := s.deps.Catalog.ProjectBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		return nil, err
	}
	props := pages.Props{site.PropProject: p}
	photo, ok, err := intParam(r, "photo")
	if err != nil {
		return nil, err
	}
	if ok {
		props[site.PropPhoto] = photo
	}
	return props, nil
}

func (s *Site) articlesProps(r *http.Request, _ i18n.Service) (pages.Props, error) {
	q, err := pageQuery(r)
	if err != nil {
		return nil, err
	}
	page, err := s.deps.Catalog.ListArticles(r.Context(), q)
	if err != nil {
		return nil, err
	}
	return pages.Props{site.PropArticles: page}, nil
}

func (s *Site) articleProps(r *http.Request, _ i18n.Service) (pages.Props, error) {
	a, err := s.deps.Catalog.ArticleBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		return nil, err
	}
	return pages.Props{site.PropArticle: a}, nil
}
