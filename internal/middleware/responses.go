package middleware

import (
	"encoding/json"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"finitefield.org/konstruksi-web/internal/inertia"
)

// ErrorBody is the JSON error envelope returned to htmx and page-protocol clients.
type ErrorBody struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Status    int    `json:"status"`
	RequestID string `json:"request_id,omitempty"`
}

// WantsJSON reports whether errors for r should use the JSON envelope.
func WantsJSON(r *http.Request) bool {
	return IsHTMX(r.Context()) || r.Header.Get("HX-Request") == "true" || inertia.IsInertia(r)
}

// WriteError writes the JSON envelope for htmx and page-protocol requests and a
// plain text error otherwise.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	if !WantsJSON(r) {
		http.Error(w, msg, status)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorBody{
		Error:     code,
		Message:   msg,
		Status:    status,
		RequestID: chimw.GetReqID(r.Context()),
	})
}
