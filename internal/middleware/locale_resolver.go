package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"finitefield.org/konstruksi-web/internal/i18n"
	"finitefield.org/konstruksi-web/internal/observability"
)

// Locale restores the language preference from the lang cookie into a per-request
// i18n.Store. Content-Language follows the store until the header is written.
func Locale(bundle *i18n.Bundle, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store := i18n.NewStore(bundle, NewCookiePreference(w, r, secure))
			store.OnSaveError = func(err error) {
				observability.FromContext(r.Context()).Warn("locale: persist preference", zap.Error(err))
			}

			h := w.Header()
			h.Add("Vary", "Cookie")
			h.Set("Content-Language", store.Locale().Tag().String())
			off := store.Subscribe(func(l i18n.Locale) {
				h.Set("Content-Language", l.Tag().String())
			})
			defer off()

			next.ServeHTTP(w, r.WithContext(WithLocaleStore(r.Context(), store)))
		})
	}
}
