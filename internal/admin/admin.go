// Package admin serves the authenticated list views for articles and projects,
// including confirmed deletion.
package admin

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"finitefield.org/konstruksi-web/internal/content"
	"finitefield.org/konstruksi-web/internal/format"
	"finitefield.org/konstruksi-web/internal/i18n"
	"finitefield.org/konstruksi-web/internal/layout"
	mw "finitefield.org/konstruksi-web/internal/middleware"
	"finitefield.org/konstruksi-web/internal/observability"
)

// Kind names an editable collection.
type Kind string

const (
	KindArticles Kind = "articles"
	KindProjects Kind = "projects"
)

// ConfirmedHeader must be "true" on htmx DELETE requests.
const ConfirmedHeader = "X-Confirmed"

// LogoutPath clears the admin token.
const LogoutPath = "/admin/logout"

// PageSize is the number of rows per admin table page.
const PageSize = 20

// ParseKind validates a {kind} route segment.
func ParseKind(raw string) (Kind, bool) {
	switch k := Kind(raw); k {
	case KindArticles, KindProjects:
		return k, true
	}
	return "", false
}

// Dependencies collects the services required by the admin handlers.
type Dependencies struct {
	Catalog      content.Catalog
	Bundle       *i18n.Bundle
	AssetVersion string
}

// Handlers exposes the admin pages and fragments.
type Handlers struct {
	catalog      content.Catalog
	bundle       *i18n.Bundle
	assetVersion string
}

// NewHandlers wires the admin handler set.
func NewHandlers(deps Dependencies) *Handlers {
	bundle := deps.Bundle
	if bundle == nil {
		bundle = i18n.MustLoadEmbedded()
	}
	return &Handlers{catalog: deps.Catalog, bundle: bundle, assetVersion: deps.AssetVersion}
}

// Routes mounts the admin routes on r. The caller is responsible for auth.
func (h *Handlers) Routes(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, listPath(KindArticles, 1), http.StatusFound)
	})
	r.Get("/{kind}", h.List)
	r.Get("/{kind}/{id}/delete", h.ConfirmDelete)
	r.Post("/{kind}/{id}/delete", h.Delete)
	r.Delete("/{kind}/{id}", h.DeleteFragment)
}

// List renders one page of the collection table.
func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	kind, ok := ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	svc := h.service(r)
	data, err := h.listData(r, svc, kind, page)
	if err != nil {
		observability.FromContext(r.Context()).Error("admin: list records",
			zap.String("kind", string(kind)), zap.Error(err))
		http.Error(w, svc.T("admin.list_failed"), http.StatusBadGateway)
		return
	}
	templ.Handler(ListPage(data)).ServeHTTP(w, r)
}

// ConfirmDelete renders the confirmation page for one record.
func (h *Handlers) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	h.renderConfirm(w, r, http.StatusOK, "")
}

// Delete removes a record after the confirmation form was submitted. Without
// confirm=yes nothing is removed and the confirmation page is shown again.
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	kind, ok := ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	svc := h.service(r)
	if r.PostFormValue("confirm") != "yes" {
		h.renderConfirm(w, r, http.StatusBadRequest, svc.T("admin.delete_unconfirmed"))
		return
	}

	session := mw.GetSession(r)
	if err := h.remove(r, kind, chi.URLParam(r, "id")); err != nil {
		session.SetFlash(svc.T("admin.delete_failed"), layout.SeverityError)
	} else {
		session.SetFlash(svc.T("admin.deleted"), layout.SeveritySuccess)
	}
	http.Redirect(w, r, listPath(kind, 1), http.StatusSeeOther)
}

// DeleteFragment handles htmx row deletion. The client removes the row only when
// the response is 200.
func (h *Handlers) DeleteFragment(w http.ResponseWriter, r *http.Request) {
	kind, ok := ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	svc := h.service(r)
	if r.Header.Get(ConfirmedHeader) != "true" {
		_ = mw.HXTrigger(w, toastEvent(svc.T("admin.delete_unconfirmed"), layout.SeverityError))
		mw.WriteError(w, r, http.StatusBadRequest, "unconfirmed", svc.T("admin.delete_unconfirmed"))
		return
	}
	if err := h.remove(r, kind, chi.URLParam(r, "id")); err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, content.ErrNotFound) {
			status = http.StatusNotFound
		}
		_ = mw.HXTrigger(w, toastEvent(svc.T("admin.delete_failed"), layout.SeverityError))
		mw.WriteError(w, r, status, "delete_failed", svc.T("admin.delete_failed"))
		return
	}
	_ = mw.HXTrigger(w, toastEvent(svc.T("admin.deleted"), layout.SeveritySuccess))
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) renderConfirm(w http.ResponseWriter, r *http.Request, status int, problem string) {
	kind, ok := ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	svc := h.service(r)
	id := chi.URLParam(r, "id")
	label, err := h.label(r, svc, kind, id)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		observability.FromContext(r.Context()).Error("admin: load record",
			zap.String("kind", string(kind)), zap.String("id", id), zap.Error(err))
		http.Error(w, svc.T("admin.list_failed"), http.StatusBadGateway)
		return
	}
	data := ConfirmData{
		Chrome:       h.chrome(r, svc, kind),
		Heading:      svc.T("admin.delete.title"),
		Body:         svc.T("admin.delete.body"),
		Record:       label,
		Problem:      problem,
		Action:       "/admin/" + string(kind) + "/" + id + "/delete",
		ConfirmLabel: svc.T("admin.delete.confirm"),
		CancelLabel:  svc.T("admin.cancel"),
		CancelHref:   listPath(kind, 1),
	}
	templ.Handler(ConfirmPage(data), templ.WithStatus(status)).ServeHTTP(w, r)
}

func (h *Handlers) remove(r *http.Request, kind Kind, id string) error {
	var err error
	switch kind {
	case KindArticles:
		err = h.catalog.DeleteArticle(r.Context(), id)
	case KindProjects:
		err = h.catalog.DeleteProject(r.Context(), id)
	}
	if err != nil {
		observability.FromContext(r.Context()).Error("admin: delete record",
			zap.String("kind", string(kind)), zap.String("id", id), zap.Error(err))
	}
	return err
}

func (h *Handlers) label(r *http.Request, svc i18n.Service, kind Kind, id string) (string, error) {
	switch kind {
	case KindArticles:
		a, err := h.catalog.ArticleByID(r.Context(), id)
		if err != nil {
			return "", err
		}
		return a.Title.In(svc.Locale()), nil
	default:
		p, err := h.catalog.ProjectByID(r.Context(), id)
		if err != nil {
			return "", err
		}
		return p.Title.In(svc.Locale()), nil
	}
}

func (h *Handlers) listData(r *http.Request, svc i18n.Service, kind Kind, page int) (ListData, error) {
	l := svc.Locale()
	q := content.Query{Page: page, PageSize: PageSize}
	data := ListData{
		Chrome:       h.chrome(r, svc, kind),
		Heading:      svc.T("admin." + string(kind) + ".title"),
		Empty:        svc.T("admin.empty"),
		DeleteLabel:  svc.T("admin.delete"),
		DeletePrompt: svc.T("admin.delete.prompt"),
	}
	switch kind {
	case KindArticles:
		data.Columns = []string{svc.T("admin.col.title"), svc.T("admin.col.slug"), svc.T("admin.col.published"), svc.T("admin.col.actions")}
		res, err := h.catalog.ListArticles(r.Context(), q)
		if err != nil {
			return ListData{}, err
		}
		for _, a := range res.Items {
			data.Rows = append(data.Rows, newRow(kind, a.ID, a.Title.In(l), a.Slug, format.Date(a.PublishedAt, l)))
		}
		data.Prev, data.Next = pager(kind, res.HasPrev(), res.HasNext(), res.PrevPage(), res.Page)
	case KindProjects:
		data.Columns = []string{svc.T("admin.col.title"), svc.T("admin.col.location"), svc.T("admin.col.year"), svc.T("admin.col.actions")}
		res, err := h.catalog.ListProjects(r.Context(), q)
		if err != nil {
			return ListData{}, err
		}
		for _, p := range res.Items {
			year := ""
			if p.Year > 0 {
				year = strconv.Itoa(p.Year)
			}
			data.Rows = append(data.Rows, newRow(kind, p.ID, p.Title.In(l), p.Location, year))
		}
		data.Prev, data.Next = pager(kind, res.HasPrev(), res.HasNext(), res.PrevPage(), res.Page)
	}
	return data, nil
}

func (h *Handlers) chrome(r *http.Request, svc i18n.Service, active Kind) Chrome {
	c := Chrome{
		Lang:         svc.Locale().Tag().String(),
		Title:        svc.T("admin.title"),
		CSRFToken:    mw.CSRFToken(r),
		AssetVersion: h.assetVersion,
		LogoutLabel:  svc.T("admin.logout"),
	}
	if t, ok := mw.GetSession(r).TakeFlash(); ok {
		c.Toast = &t
	}
	if u, ok := mw.UserFromContext(r.Context()); ok && u != nil {
		c.User = strings.TrimSpace(u.Email)
		if c.User == "" {
			c.User = u.UID
		}
	}
	for _, k := range []Kind{KindArticles, KindProjects} {
		c.Tabs = append(c.Tabs, Tab{
			Label:  svc.T("admin." + string(k) + ".title"),
			Href:   listPath(k, 1),
			Active: k == active,
		})
	}
	return c
}

func (h *Handlers) service(r *http.Request) i18n.Service {
	if st := mw.LocaleStore(r.Context()); st != nil {
		return st
	}
	return i18n.NewStore(h.bundle, nil)
}

func newRow(kind Kind, id string, cells ...string) Row {
	return Row{
		ID:          id,
		Cells:       cells,
		ConfirmHref: "/admin/" + string(kind) + "/" + id + "/delete",
		DeleteURL:   "/admin/" + string(kind) + "/" + id,
	}
}

func pager(kind Kind, hasPrev, hasNext bool, prevPage, page int) (string, string) {
	var prev, next string
	if hasPrev {
		prev = listPath(kind, prevPage)
	}
	if hasNext {
		next = listPath(kind, page+1)
	}
	return prev, next
}

func listPath(kind Kind, page int) string {
	p := "/admin/" + string(kind)
	if page > 1 {
		p += "?page=" + strconv.Itoa(page)
	}
	return p
}

func toastEvent(message string, severity layout.Severity) map[string]any {
	return map[string]any{"toast": map[string]any{"message": message, "tone": string(severity)}}
}
