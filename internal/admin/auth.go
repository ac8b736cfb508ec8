package admin

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	mw "finitefield.org/konstruksi-web/internal/middleware"
	"finitefield.org/konstruksi-web/internal/observability"
)

// TokenCookieName holds the admin ID token; the Auth middleware reads it.
const TokenCookieName = "__session"

// LoginData feeds LoginPage.
type LoginData struct {
	Chrome
	Heading     string
	Message     string
	Error       string
	Next        string
	Action      string
	TokenLabel  string
	SubmitLabel string
}

// Login serves the sign-in form and exchanges a verified ID token for the
// session cookie.
type Login struct {
	handlers      *Handlers
	authenticator mw.Authenticator
	loginPath     string
	secure        bool
}

// NewLogin returns the sign-in handlers for loginPath.
func (h *Handlers) NewLogin(authenticator mw.Authenticator, loginPath string, secure bool) *Login {
	if authenticator == nil {
		panic("admin: authenticator is required")
	}
	if strings.TrimSpace(loginPath) == "" {
		loginPath = "/admin/login"
	}
	return &Login{handlers: h, authenticator: authenticator, loginPath: loginPath, secure: secure}
}

// Form renders the sign-in page.
func (l *Login) Form(w http.ResponseWriter, r *http.Request) {
	svc := l.handlers.service(r)
	message := ""
	if r.URL.Query().Get("reason") == "expired" {
		message = svc.T("admin.login.expired")
	}
	l.render(w, r, http.StatusOK, message, "", r.URL.Query().Get("next"))
}

// Submit verifies the posted token, stores it and sends the editor on to next.
func (l *Login) Submit(w http.ResponseWriter, r *http.Request) {
	svc := l.handlers.service(r)
	next := r.PostFormValue("next")
	token := strings.TrimSpace(r.PostFormValue("id_token"))
	if token == "" {
		l.render(w, r, http.StatusBadRequest, "", svc.T("admin.login.missing"), next)
		return
	}
	user, err := l.authenticator.Authenticate(r, token)
	if err != nil || user == nil {
		observability.FromContext(r.Context()).Warn("admin login failed", zap.Error(err))
		l.render(w, r, http.StatusUnauthorized, "", svc.T("admin.login.failed"), next)
		return
	}

	mw.GetSession(r).RegenerateID()
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/admin",
		HttpOnly: true,
		Secure:   l.secure,
		SameSite: http.SameSiteLaxMode,
	})
	target := safeNext(next)
	if mw.IsHTMX(r.Context()) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// Logout clears the token cookie.
func (l *Login) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/admin",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   l.secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, l.loginPath, http.StatusSeeOther)
}

func (l *Login) render(w http.ResponseWriter, r *http.Request, status int, message, problem, next string) {
	svc := l.handlers.service(r)
	data := LoginData{
		Chrome:      l.handlers.chrome(r, svc, ""),
		Heading:     svc.T("admin.login.title"),
		Message:     message,
		Error:       problem,
		Next:        safeNext(next),
		Action:      l.loginPath,
		TokenLabel:  svc.T("admin.login.token"),
		SubmitLabel: svc.T("admin.login.submit"),
	}
	data.Chrome.Tabs = nil
	templ.Handler(LoginPage(data), templ.WithStatus(status)).ServeHTTP(w, r)
}

// safeNext keeps redirects inside the admin area.
func safeNext(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/admin") || strings.HasPrefix(raw, "//") {
		return listPath(KindArticles, 1)
	}
	return u.RequestURI()
}

// LoginPage renders the sign-in form.
func LoginPage(d LoginData) templ.Component {
	return frame(d.Chrome, templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section class="admin-login"><h1>`, esc(d.Heading), `</h1>`)
		if d.Message != "" {
			h.raw(`<p class="admin-login__message">`, esc(d.Message), `</p>`)
		}
		if d.Error != "" {
			h.raw(`<p class="admin-login__error" role="alert">`, esc(d.Error), `</p>`)
		}
		h.raw(`<form method="post" action="`, esc(d.Action), `">`,
			`<input type="hidden" name="`, mw.CSRFFormField, `" value="`, esc(d.CSRFToken), `">`,
			`<input type="hidden" name="next" value="`, esc(d.Next), `">`,
			`<label>`, esc(d.TokenLabel), ` <textarea name="id_token" rows="4" required></textarea></label>`,
			`<button type="submit" class="button">`, esc(d.SubmitLabel), `</button>`,
			`</form></section>`)
		return h.err
	}))
}
