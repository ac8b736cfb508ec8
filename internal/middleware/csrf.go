package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
	"time"
)

const (
	csrfCookieName = "csrf_token"
	// CSRFHeader carries the token on htmx and fetch requests.
	CSRFHeader = "X-CSRF-Token"
	// CSRFFormField carries the token on plain form posts.
	CSRFFormField = "csrf_token"
)

// CSRF issues a CSRF cookie and verifies that modifying requests carry the session
// token in the header or the form, plus the matching cookie.
func CSRF(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Tie token to session: use per-session token from session data
			s := GetSession(r)
			token := s.CSRFToken
			if token == "" {
				token = newCSRFToken()
				s.CSRFToken = token
				s.MarkDirty()
			}

			// double submit cookie
			if c, err := r.Cookie(csrfCookieName); err != nil || c.Value != token {
				http.SetCookie(w, &http.Cookie{
					Name:     csrfCookieName,
					Value:    token,
					Path:     "/",
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
					Expires:  time.Now().Add(24 * time.Hour),
				})
			}

			if !isSafeMethod(r.Method) {
				// Bearer clients are not browsers.
				if auth := r.Header.Get("Authorization"); auth == "" || !strings.HasPrefix(strings.ToLower(auth), "bearer ") {
					sent := r.Header.Get(CSRFHeader)
					if sent == "" {
						sent = r.PostFormValue(CSRFFormField)
					}
					if !tokensEqual(sent, token) {
						WriteError(w, r, http.StatusForbidden, "csrf_invalid", "invalid CSRF token")
						return
					}
					if c, err := r.Cookie(csrfCookieName); err != nil || !tokensEqual(c.Value, token) {
						WriteError(w, r, http.StatusForbidden, "csrf_invalid", "invalid CSRF token")
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CSRFToken returns the session token for embedding in forms and hx-headers.
func CSRFToken(r *http.Request) string {
	return GetSession(r).CSRFToken
}

func tokensEqual(a, b string) bool {
	return a != "" && subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func newCSRFToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func isSafeMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}
