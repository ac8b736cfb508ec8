package middleware

import (
	"net/http"

	"finitefield.org/konstruksi-web/internal/lifecycle"
)

// Scope gives every request a lifecycle scope that is closed when the handler returns.
func Scope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := lifecycle.NewScope()
		defer s.Close()
		next.ServeHTTP(w, r.WithContext(lifecycle.WithScope(r.Context(), s)))
	})
}
