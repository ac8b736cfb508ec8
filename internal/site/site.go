// Package site is the page registration table: every page identifier the server
// can emit and the unit composing it from props.
package site

import (
	"context"
	"fmt"

	"finitefield.org/konstruksi-web/internal/content"
	"finitefield.org/konstruksi-web/internal/i18n"
	"finitefield.org/konstruksi-web/internal/layout"
	"finitefield.org/konstruksi-web/internal/nav"
	"finitefield.org/konstruksi-web/internal/pages"
	"finitefield.org/konstruksi-web/internal/sections"
	"finitefield.org/konstruksi-web/internal/seo"
)

// Page identifiers.
const (
	Welcome        = "Welcome"
	AboutIndex     = "About/Index"
	AboutStructure = "About/Structure"
	ServicesIndex  = "Services/Index"
	ProjectsIndex  = "Projects/Index"
	ProjectsShow   = "Projects/Show"
	ArticlesIndex  = "Articles/Index"
	ArticlesShow   = "Articles/Show"
)

// Prop keys. Company, Locale, Flash and BaseURL are shared by every page.
const (
	PropCompany  = "company"
	PropLocale   = "locale"
	PropFlash    = "flash"
	PropBaseURL  = "baseUrl"
	PropSlides   = "slides"
	PropHero     = "hero"
	PropStats    = "stats"
	PropServices = "services"
	PropFeatured = "featured"
	PropMembers  = "members"
	PropViewport = "viewportWidth"
	PropPrices   = "prices"
	PropProjects = "projects"
	PropProject  = "project"
	PropPhoto    = "photo"
	PropArticles = "articles"
	PropArticle  = "article"
)

// DefaultViewportWidth is assumed when the client sent no width hint.
const DefaultViewportWidth = 1280

// HeroState is the carousel position carried in props.
type HeroState struct {
	Index  int  `json:"index"`
	Paused bool `json:"paused"`
}

// NewRegistry builds the registration table. The home page is eager; every other
// page loads on first use.
func NewRegistry() *pages.Registry {
	r := pages.NewRegistry(Welcome, pages.UnitFunc(welcome))
	lazy := map[string]pages.UnitFunc{
		AboutIndex:     aboutIndex,
		AboutStructure: aboutStructure,
		ServicesIndex:  servicesIndex,
		ProjectsIndex:  projectsIndex,
		ProjectsShow:   projectsShow,
		ArticlesIndex:  articlesIndex,
		ArticlesShow:   articlesShow,
	}
	for id, fn := range lazy {
		r.RegisterLazy(id, func(context.Context) (pages.Unit, error) { return fn, nil })
	}
	return r
}

// prop returns props[key] as T. Absent keys yield the zero value.
func prop[T any](p pages.Props, key string) (T, bool) {
	v, ok := p[key].(T)
	return v, ok
}

func mustProp[T any](p pages.Props, key string) (T, error) {
	v, ok := prop[T](p, key)
	if !ok {
		return v, fmt.Errorf("site: missing prop %q", key)
	}
	return v, nil
}

func crumb(svc i18n.Service, key string, segments ...string) nav.Crumb {
	return nav.Crumb{Label: svc.T(key), Href: nav.Path(svc.Locale(), segments...)}
}

func welcome(_ context.Context, in pages.Input) (layout.Document, error) {
	svc := in.Locale
	company, _ := prop[content.Company](in.Props, PropCompany)
	slides, _ := prop[[]content.Slide](in.Props, PropSlides)
	stats, _ := prop[[]content.Stat](in.Props, PropStats)
	services, _ := prop[[]content.Service](in.Props, PropServices)
	featured, _ := prop[[]content.Project](in.Props, PropFeatured)
	state, _ := prop[HeroState](in.Props, PropHero)
	baseURL, _ := prop[string](in.Props, PropBaseURL)

	carousel := sections.RestoreCarousel(len(slides), state.Index, state.Paused)
	opts := layout.Options{
		TransparentNav: true,
		HeaderFixed:    true,
		StructuredData: []any{seo.Organization(
			company.Name,
			seo.Absolute(baseURL, nav.Path(svc.Locale())),
			seo.Absolute(baseURL, company.Logo),
			company.Address,
		)},
	}
	return layout.Compose(svc, opts,
		sections.Hero(svc, slides, carousel),
		sections.Stats(svc, stats),
		sections.Services(svc, services),
		sections.Featured(svc, featured),
		sections.CTA(svc, company),
	), nil
}

func aboutIndex(_ context.Context, in pages.Input) (layout.Document, error) {
	svc := in.Locale
	company, _ := prop[content.Company](in.Props, PropCompany)
	return layout.Compose(svc, layout.Options{
		HeaderTitle: svc.T("nav.about"),
		Breadcrumbs: nav.Trail(nav.Home(svc), crumb(svc, "nav.about", "about")),
		Description: company.Profile.In(svc.Locale()),
	},
		sections.Profile(svc, company),
		sections.CTA(svc, company),
	), nil
}

func aboutStructure(_ context.Context, in pages.Input) (layout.Document, error) {
	svc := in.Locale
	members, _ := prop[[]content.Member](in.Props, PropMembers)
	width, ok := prop[int](in.Props, PropViewport)
	if !ok || width <= 0 {
		width = DefaultViewportWidth
	}

	chart := sections.NewOrgChart(members, svc.Locale())
	renderer := &sections.JSONRenderer{}
	// Resizes are handled by the client; the server draws once for the hinted width.
	// Invalid member lists render the empty state; the error is not fatal.
	if err := chart.Draw(renderer, width); err != nil && chart.Err() == nil {
		return layout.Document{}, err
	}
	if in.Scope != nil {
		in.Scope.Add(renderer.Dispose)
	}

	return layout.Compose(svc, layout.Options{
		HeaderTitle: svc.T("nav.structure"),
		Breadcrumbs: nav.Trail(
			nav.Home(svc),
			crumb(svc, "nav.about", "about"),
			crumb(svc, "nav.structure", "about", "structure"),
		),
	},
		sections.OrgChartSection(svc, chart, renderer),
	), nil
}

func servicesIndex(_ context.Context, in pages.Input) (layout.Document, error) {
	svc := in.Locale
	company, _ := prop[content.Company](in.Props, PropCompany)
	services, _ := prop[[]content.Service](in.Props, PropServices)
	prices, _ := prop[[]content.PriceTable](in.Props, PropPrices)
	return layout.Compose(svc, layout.Options{
		HeaderTitle: svc.T("nav.services"),
		Breadcrumbs: nav.Trail(nav.Home(svc), crumb(svc, "nav.services", "services")),
	},
		sections.Services(svc, services),
		sections.Prices(svc, prices),
		sections.CTA(svc, company),
	), nil
}

func projectsIndex(_ context.Context, in pages.Input) (layout.Document, error) {
	svc := in.Locale
	page, _ := prop[content.Page[content.Project]](in.Props, PropProjects)
	return layout.Compose(svc, layout.Options{
		HeaderTitle: svc.T("nav.projects"),
		Breadcrumbs: nav.Trail(nav.Home(svc), crumb(svc, "nav.projects", "projects")),
	},
		sections.ProjectsGrid(svc, page),
	), nil
}

func projectsShow(_ context.Context, in pages.Input) (layout.Document, error) {
	svc := in.Locale
	l := svc.Locale()
	p, err := mustProp[content.Project](in.Props, PropProject)
	if err != nil {
		return layout.Document{}, err
	}
	lb := sections.NewLightbox(len(p.Photos))
	if i, ok := prop[int](in.Props, PropPhoto); ok {
		lb.Open(i)
	}
	title := p.Title.In(l)
	return layout.Compose(svc, layout.Options{
		HeaderTitle: title,
		Background:  p.Cover,
		Description: p.Summary.In(l),
		Breadcrumbs: nav.Trail(
			nav.Home(svc),
			crumb(svc, "nav.projects", "projects"),
			nav.Crumb{Label: title, Href: nav.Path(l, "projects", p.Slug)},
		),
	},
		sections.Project(svc, p, lb),
	), nil
}

func articlesIndex(_ context.Context, in pages.Input) (layout.Document, error) {
	svc := in.Locale
	page, _ := prop[content.Page[content.Article]](in.Props, PropArticles)
	return layout.Compose(svc, layout.Options{
		HeaderTitle: svc.T("nav.articles"),
		Breadcrumbs: nav.Trail(nav.Home(svc), crumb(svc, "nav.articles", "articles")),
	},
		sections.Articles(svc, page),
	), nil
}

func articlesShow(_ context.Context, in pages.Input) (layout.Document, error) {
	svc := in.Locale
	l := svc.Locale()
	a, err := mustProp[content.Article](in.Props, PropArticle)
	if err != nil {
		return layout.Document{}, err
	}
	baseURL, _ := prop[string](in.Props, PropBaseURL)
	body, err := sections.Article(svc, a)
	if err != nil {
		return layout.Document{}, err
	}
	data := body.Data.(sections.ArticleData)
	href := nav.Path(l, "articles", a.Slug)
	return layout.Compose(svc, layout.Options{
		HeaderTitle: data.Title,
		Background:  a.Cover,
		Description: data.Excerpt,
		Breadcrumbs: nav.Trail(
			nav.Home(svc),
			crumb(svc, "nav.articles", "articles"),
			nav.Crumb{Label: data.Title, Href: href},
		),
		StructuredData: []any{seo.Article(
			data.Title,
			seo.Absolute(baseURL, href),
			seo.Absolute(baseURL, a.Cover),
			a.Author,
			data.ISODate,
		)},
	},
		body,
	), nil
}
