package middleware

import (
	"context"

	"finitefield.org/konstruksi-web/internal/i18n"
)

// context keys are unexported to avoid collisions
type ctxKey string

const (
	ctxKeyIsHTMX  ctxKey = "is_htmx"
	ctxKeySession ctxKey = "session"
	ctxKeyUser    ctxKey = "user"
	ctxKeyLocale  ctxKey = "locale"
)

// WithHTMX marks request as HTMX
func WithHTMX(ctx context.Context, is bool) context.Context {
	return context.WithValue(ctx, ctxKeyIsHTMX, is)
}

// IsHTMX returns whether this is an htmx request
func IsHTMX(ctx context.Context) bool {
	v, _ := ctx.Value(ctxKeyIsHTMX).(bool)
	return v
}

// WithUser stores user in context
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ctxKeyUser, u)
}

// UserFromContext returns the authenticated admin user if present.
func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ctxKeyUser).(*User)
	return u, ok && u != nil
}

// WithLocaleStore stores the request's locale store in context.
func WithLocaleStore(ctx context.Context, s *i18n.Store) context.Context {
	return context.WithValue(ctx, ctxKeyLocale, s)
}

// LocaleStore returns the request's locale store, or nil outside the Locale middleware.
func LocaleStore(ctx context.Context) *i18n.Store {
	s, _ := ctx.Value(ctxKeyLocale).(*i18n.Store)
	return s
}
