package middleware

import (
	"encoding/json"
	"net/http"
)

// HTMX marks requests coming from htmx so handlers/middlewares can adapt responses
func HTMX(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		is := r.Header.Get("HX-Request") == "true"
		ctx := WithHTMX(r.Context(), is)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// HXTrigger sets the HX-Trigger header to a JSON object of client events.
func HXTrigger(w http.ResponseWriter, events map[string]any) error {
	b, err := json.Marshal(events)
	if err != nil {
		return err
	}
	w.Header().Set("HX-Trigger", string(b))
	return nil
}
