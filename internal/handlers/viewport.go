package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"finitefield.org/konstruksi-web/internal/site"
)

// Viewport width client hints, newest first.
var viewportHints = []string{"Sec-CH-Viewport-Width", "Viewport-Width"}

// ViewportWidth reads the client's viewport width hint, defaulting to
// site.DefaultViewportWidth when absent or malformed.
func ViewportWidth(r *http.Request) int {
	for _, h := range viewportHints {
		raw := strings.TrimSpace(r.Header.Get(h))
		if raw == "" {
			continue
		}
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return site.DefaultViewportWidth
}
