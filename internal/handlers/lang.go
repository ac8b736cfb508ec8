package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"finitefield.org/konstruksi-web/internal/i18n"
	"finitefield.org/konstruksi-web/internal/inertia"
	"finitefield.org/konstruksi-web/internal/nav"
)

// SwitchLanguage stores the language {code} and sends the client to the page given
// by ?to= in that language. Unsupported codes leave the preference unchanged.
func (s *Site) SwitchLanguage(w http.ResponseWriter, r *http.Request) {
	svc := s.service(r)
	if l, ok := i18n.ParseLocale(chi.URLParam(r, "code")); ok {
		svc.SetLocale(l)
	}
	p, query := localPath(r.URL.Query().Get("to"))
	inertia.Location(w, r, nav.SwitchLocale(p, svc.Locale())+query)
}

// localPath splits a same-site absolute path from its query. Anything else maps to "/".
func localPath(raw string) (string, string) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, `/\`) {
		return "/", ""
	}
	raw, _, _ = strings.Cut(raw, "#")
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return raw[:i], raw[i:]
	}
	return raw, ""
}
