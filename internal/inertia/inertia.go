// Package inertia speaks the page protocol shared with the client: a page object
// {component, props, url, version} sent as JSON to navigations made by the client
// router and embedded into the HTML document otherwise.
package inertia

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Protocol headers.
const (
	HeaderInertia  = "X-Inertia"
	HeaderVersion  = "X-Inertia-Version"
	HeaderLocation = "X-Inertia-Location"
)

// Page is the payload describing one rendered page.
type Page struct {
	Component string         `json:"component"`
	Props     map[string]any `json:"props"`
	URL       string         `json:"url"`
	Version   string         `json:"version"`
}

// IsInertia reports whether r was made by the client router.
func IsInertia(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get(HeaderInertia), "true")
}

// Marshal encodes p for a data-page attribute. Nil props encode as {}.
func Marshal(p Page) (string, error) {
	if p.Props == nil {
		p.Props = map[string]any{}
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteJSON sends p as a protocol response.
func WriteJSON(w http.ResponseWriter, status int, p Page) error {
	body, err := Marshal(p)
	if err != nil {
		return err
	}
	h := w.Header()
	h.Set(HeaderInertia, "true")
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Add("Vary", HeaderInertia)
	w.WriteHeader(status)
	_, err = w.Write([]byte(body))
	return err
}

// VersionCheck answers a GET whose asset version differs from version with 409 and
// an X-Inertia-Location so the client performs a full reload.
func VersionCheck(version func() string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet && IsInertia(r) {
				got := r.Header.Get(HeaderVersion)
				if want := version(); got != "" && want != "" && got != want {
					w.Header().Set(HeaderLocation, r.URL.RequestURI())
					w.WriteHeader(http.StatusConflict)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Redirect sends the client to url. PUT, PATCH and DELETE use 303 so the follow-up
// request is a GET.
func Redirect(w http.ResponseWriter, r *http.Request, url string) {
	status := http.StatusFound
	switch r.Method {
	case http.MethodPut, http.MethodPatch, http.MethodDelete:
		status = http.StatusSeeOther
	}
	http.Redirect(w, r, url, status)
}

// Location forces a full page visit to url, leaving the client router.
func Location(w http.ResponseWriter, r *http.Request, url string) {
	if IsInertia(r) {
		w.Header().Set(HeaderLocation, url)
		w.WriteHeader(http.StatusConflict)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}
