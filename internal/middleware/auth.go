package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"finitefield.org/konstruksi-web/internal/observability"
)

// User represents the authenticated admin.
type User struct {
	UID   string
	Email string
	Roles []string
	Token string
}

// Authenticator resolves an incoming token into a User.
type Authenticator interface {
	Authenticate(r *http.Request, token string) (*User, error)
}

// ErrUnauthorized is returned when authentication fails.
var ErrUnauthorized = errors.New("unauthorized")

// AuthError contains reason codes for failed authentication attempts.
type AuthError struct {
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return e.Reason + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError constructs an AuthError with the provided reason.
func NewAuthError(reason string, err error) error {
	return &AuthError{Reason: reason, Err: err}
}

const (
	// ReasonMissingToken indicates an auth attempt without credentials.
	ReasonMissingToken = "missing_token"
	// ReasonTokenInvalid indicates a malformed or invalid token.
	ReasonTokenInvalid = "token_invalid"
	// ReasonTokenExpired indicates an expired token which may be recoverable.
	ReasonTokenExpired = "token_expired"
)

// DefaultAuthenticator accepts any non-empty token and is intended for local development.
func DefaultAuthenticator() Authenticator {
	return &passthroughAuthenticator{}
}

// Auth validates incoming requests and either attaches a User to context or sends
// the client to loginPath.
func Auth(authenticator Authenticator, loginPath string) func(http.Handler) http.Handler {
	if authenticator == nil {
		authenticator = DefaultAuthenticator()
	}
	if loginPath == "" {
		loginPath = "/admin/login"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := observability.FromContext(r.Context())
			token := parseBearerToken(r.Header.Get("Authorization"))
			if token == "" {
				token = cookieToken(r)
			}
			if strings.TrimSpace(token) == "" {
				logger.Info("auth failure", zap.String("reason", ReasonMissingToken))
				handleUnauthorized(w, r, loginPath, ReasonMissingToken)
				return
			}

			user, err := authenticator.Authenticate(r, token)
			if err != nil || user == nil {
				reason := ReasonTokenInvalid
				var authErr *AuthError
				if errors.As(err, &authErr) {
					if authErr.Reason != "" {
						reason = authErr.Reason
					}
					err = authErr.Err
				}
				if err == nil {
					err = ErrUnauthorized
				}
				logger.Warn("auth failure", zap.String("reason", reason), zap.Error(err))
				handleUnauthorized(w, r, loginPath, reason)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func parseBearerToken(header string) string {
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

func cookieToken(r *http.Request) string {
	candidates := []string{"Authorization", "__session", "idToken"}
	for _, name := range candidates {
		c, err := r.Cookie(name)
		if err != nil {
			continue
		}
		val := strings.TrimSpace(c.Value)
		if val == "" {
			continue
		}
		if strings.HasPrefix(strings.ToLower(val), "bearer ") {
			return strings.TrimSpace(val[7:])
		}
		return val
	}
	return ""
}

func handleUnauthorized(w http.ResponseWriter, r *http.Request, loginPath, reason string) {
	if reason == "" {
		reason = ReasonTokenInvalid
	}

	if IsHTMX(r.Context()) {
		if reason == ReasonTokenExpired {
			w.Header().Set("HX-Refresh", "true")
		} else {
			w.Header().Set("HX-Redirect", loginPath)
		}
		WriteError(w, r, http.StatusUnauthorized, reason, http.StatusText(http.StatusUnauthorized))
		return
	}

	redirectURL := loginPath
	if u, err := url.Parse(loginPath); err == nil {
		q := u.Query()
		if reason == ReasonTokenExpired {
			q.Set("reason", "expired")
		}
		q.Set("next", r.URL.RequestURI())
		u.RawQuery = q.Encode()
		redirectURL = u.String()
	}
	http.Redirect(w, r, redirectURL, http.StatusFound)
}

type passthroughAuthenticator struct{}

func (p *passthroughAuthenticator) Authenticate(_ *http.Request, token string) (*User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	return &User{
		UID:   token,
		Roles: []string{"admin"},
		Token: token,
	}, nil
}
