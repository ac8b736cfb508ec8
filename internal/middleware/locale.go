package middleware

import (
	"net/http"
	"time"
)

const (
	// LocaleCookieName stores the language preference.
	LocaleCookieName = "lang"
	localeCookieAge  = 365 * 24 * time.Hour
)

// CookiePreference persists the language choice in the lang cookie.
type CookiePreference struct {
	r      *http.Request
	w      http.ResponseWriter
	secure bool

	saved string
	set   bool
}

// NewCookiePreference reads from r and writes to w.
func NewCookiePreference(w http.ResponseWriter, r *http.Request, secure bool) *CookiePreference {
	return &CookiePreference{r: r, w: w, secure: secure}
}

// Load implements i18n.Preference. A value saved during this request wins over the
// request cookie.
func (p *CookiePreference) Load() (string, bool) {
	if p.set {
		return p.saved, true
	}
	c, err := p.r.Cookie(LocaleCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// Save implements i18n.Preference.
func (p *CookiePreference) Save(value string) error {
	http.SetCookie(p.w, &http.Cookie{
		Name:     LocaleCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(localeCookieAge.Seconds()),
		Secure:   p.secure,
		SameSite: http.SameSiteLaxMode,
	})
	p.saved = value
	p.set = true
	return nil
}
