package handlers

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"finitefield.org/konstruksi-web/internal/content"
	"finitefield.org/konstruksi-web/internal/i18n"
	"finitefield.org/konstruksi-web/internal/inertia"
	"finitefield.org/konstruksi-web/internal/layout"
	"finitefield.org/konstruksi-web/internal/lifecycle"
	mw "finitefield.org/konstruksi-web/internal/middleware"
	"finitefield.org/konstruksi-web/internal/nav"
	"finitefield.org/konstruksi-web/internal/observability"
	"finitefield.org/konstruksi-web/internal/pages"
	"finitefield.org/konstruksi-web/internal/sections"
	"finitefield.org/konstruksi-web/internal/seo"
	"finitefield.org/konstruksi-web/internal/site"
	"finitefield.org/konstruksi-web/internal/view"
)

// PropsLoader fetches the page-specific props for a request.
type PropsLoader func(r *http.Request, svc i18n.Service) (pages.Props, error)

// Page answers a request with the page identified by id.
func (s *Site) Page(id string, load PropsLoader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc := s.service(r)
		props := pages.Props{}
		if load != nil {
			p, err := load(r, svc)
			if err != nil {
				s.loadFailed(w, r, id, err)
				return
			}
			props = p
		}
		s.Render(w, r, id, props)
	}
}

// Render resolves id, adds the shared props and writes either the protocol JSON or
// the full HTML document.
func (s *Site) Render(w http.ResponseWriter, r *http.Request, id string, props pages.Props) {
	ctx := r.Context()
	logger := observability.FromContext(ctx).With(zap.String("component", id))
	svc := s.service(r)

	pending, err := s.deps.Pages.Resolve(ctx, id)
	if err != nil {
		s.deps.Metrics.ObserveResolution(id, observability.OutcomeNotFound)
		logger.Error("page resolution failed", zap.Error(err))
		s.fail(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	unit, err := pending.Wait(ctx)
	if err != nil {
		s.deps.Metrics.ObserveResolution(id, observability.OutcomeError)
		logger.Error("page load failed", zap.Error(err))
		s.fail(w, r, http.StatusInternalServerError, svc.T("error.internal"))
		return
	}
	s.deps.Metrics.ObserveResolution(id, observability.OutcomeOK)

	if props == nil {
		props = pages.Props{}
	}
	toast := s.sharedProps(r, svc, props)
	page := inertia.Page{
		Component: id,
		Props:     props,
		URL:       r.URL.RequestURI(),
		Version:   s.deps.AssetVersion,
	}
	if inertia.IsInertia(r) {
		if err := inertia.WriteJSON(w, http.StatusOK, page); err != nil {
			logger.Error("write page json", zap.Error(err))
		}
		return
	}

	scope, ok := lifecycle.FromContext(ctx)
	if !ok {
		scope = lifecycle.NewScope()
		defer scope.Close()
	}
	doc, err := unit.Compose(ctx, pages.Input{Props: props, Locale: svc, Path: r.URL.Path, Scope: scope})
	if err != nil {
		logger.Error("page compose failed", zap.Error(err))
		s.fail(w, r, http.StatusInternalServerError, svc.T("error.internal"))
		return
	}
	pageJSON, err := inertia.Marshal(page)
	if err != nil {
		logger.Error("encode page payload", zap.Error(err))
		s.fail(w, r, http.StatusInternalServerError, svc.T("error.internal"))
		return
	}

	company, _ := props[site.PropCompany].(content.Company)
	data := view.PageData{
		Lang:            svc.Locale().String(),
		HTMLLang:        svc.Locale().Tag().String(),
		Path:            r.URL.Path,
		SiteName:        svc.T("site.name"),
		HomeHref:        nav.Path(svc.Locale()),
		Doc:             doc,
		Nav:             nav.Build(svc, r.URL.Path),
		Languages:       languages(svc, r),
		SEO:             s.meta(r, svc, id, doc),
		JSONLD:          s.structuredData(doc),
		Analytics:       s.deps.Analytics,
		Footer:          sections.Footer(svc, company, s.deps.Now()),
		Toast:           toast,
		ToastCloseLabel: svc.T("toast.close"),
		ScrollThreshold: layout.ScrollThreshold,
		PageJSON:        pageJSON,
		AssetVersion:    s.deps.AssetVersion,
		CSRFToken:       mw.CSRFToken(r),
	}

	var buf bytes.Buffer
	if err := s.deps.View.Page(&buf, data); err != nil {
		logger.Error("render page", zap.Error(err))
		s.fail(w, r, http.StatusInternalServerError, svc.T("error.internal"))
		return
	}
	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Add("Vary", inertia.HeaderInertia)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// sharedProps adds the props every page receives and returns the toast to show.
func (s *Site) sharedProps(r *http.Request, svc i18n.Service, props pages.Props) *layout.Toast {
	props[site.PropCompany] = s.deps.Profile.Company
	props[site.PropLocale] = svc.Locale().String()
	props[site.PropBaseURL] = s.deps.BaseURL

	toaster := &layout.Toaster{}
	if flash, ok := mw.GetSession(r).TakeFlash(); ok {
		toaster.Show(flash.Message, flash.Severity)
	}
	t, ok := toaster.Current()
	if !ok {
		props[site.PropFlash] = nil
		return nil
	}
	props[site.PropFlash] = t
	return &t
}

func languages(svc i18n.Service, r *http.Request) []view.Language {
	out := make([]view.Language, 0, len(i18n.Locales))
	for _, l := range i18n.Locales {
		out = append(out, view.Language{
			Code:   l.String(),
			Label:  svc.T("nav.lang_" + l.String()),
			Href:   "/lang/" + l.String() + "?to=" + url.QueryEscape(r.URL.RequestURI()),
			Active: l == svc.Locale(),
		})
	}
	return out
}

func (s *Site) meta(r *http.Request, svc i18n.Service, id string, doc layout.Document) seo.Meta {
	base := s.deps.BaseURL
	m := seo.Meta{
		Title:       doc.Title,
		Description: doc.Description,
		Canonical:   seo.Absolute(base, r.URL.Path),
	}
	for _, l := range i18n.Locales {
		m.Alternates = append(m.Alternates, seo.Alternate{
			Href:     seo.Absolute(base, nav.SwitchLocale(r.URL.Path, l)),
			Hreflang: l.Tag().String(),
		})
	}
	m.Alternates = append(m.Alternates, seo.Alternate{
		Href:     seo.Absolute(base, nav.SwitchLocale(r.URL.Path, i18n.Primary)),
		Hreflang: "x-default",
	})
	m.OG = seo.OpenGraph{
		Title:       doc.Title,
		Description: doc.Description,
		Image:       seo.Absolute(base, doc.Background),
		Type:        "website",
		URL:         m.Canonical,
		SiteName:    svc.T("site.name"),
	}
	if id == site.ArticlesShow {
		m.OG.Type = "article"
	}
	return m
}

func (s *Site) structuredData(doc layout.Document) []template.JS {
	var out []template.JS
	for _, v := range doc.StructuredData {
		out = append(out, seo.Script(v))
	}
	if bc := doc.BreadcrumbList(s.deps.BaseURL); bc != nil {
		out = append(out, seo.Script(bc))
	}
	return out
}

func (s *Site) loadFailed(w http.ResponseWriter, r *http.Request, id string, err error) {
	svc := s.service(r)
	if errors.Is(err, content.ErrNotFound) {
		s.NotFound(w, r)
		return
	}
	var bad *badRequestError
	if errors.As(err, &bad) {
		s.fail(w, r, http.StatusBadRequest, bad.Error())
		return
	}
	observability.FromContext(r.Context()).Error("load page props",
		zap.String("component", id), zap.Error(err))
	s.fail(w, r, http.StatusInternalServerError, svc.T("error.internal"))
}

// NotFound renders the 404 page.
func (s *Site) NotFound(w http.ResponseWriter, r *http.Request) {
	s.fail(w, r, http.StatusNotFound, s.service(r).T("error.not_found"))
}

// fail writes the JSON envelope for htmx and protocol requests and the error page
// otherwise.
func (s *Site) fail(w http.ResponseWriter, r *http.Request, status int, message string) {
	if mw.WantsJSON(r) {
		mw.WriteError(w, r, status, errorCode(status), message)
		return
	}
	svc := s.service(r)
	var buf bytes.Buffer
	err := s.deps.View.Error(&buf, view.ErrorData{
		HTMLLang:  svc.Locale().Tag().String(),
		SiteName:  svc.T("site.name"),
		Status:    status,
		Message:   message,
		RequestID: requestID(r),
		HomeHref:  nav.Path(svc.Locale()),
		HomeLabel: svc.T("nav.home"),
	})
	if err != nil {
		http.Error(w, message, status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func errorCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusBadRequest:
		return "bad_request"
	default:
		return "internal_server_error"
	}
}
