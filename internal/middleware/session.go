package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"finitefield.org/konstruksi-web/internal/layout"
)

// SessionCookieName is the signed session cookie.
const SessionCookieName = "KONSTRUKSI_WEB_SESSION"

const sessionMaxAge = 30 * 24 * time.Hour

// SessionData is the state carried between requests: the CSRF token and at most
// one pending flash message.
type SessionData struct {
	ID        string        `json:"id"`
	CSRFToken string        `json:"csrf,omitempty"`
	Flash     *layout.Toast `json:"flash,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	// internal dirty flag; not serialized
	dirty bool
}

// SessionOptions configures the session middleware.
type SessionOptions struct {
	// SigningKey signs the cookie. When empty a process-ephemeral key is generated.
	SigningKey []byte
	Secure     bool
	Logger     *zap.Logger
}

type sessionCodec struct {
	key    []byte
	secure bool
}

// Session loads or initializes a session and stores it in request context. The
// cookie is rewritten just before the response header when the session changed.
func Session(opts SessionOptions) func(http.Handler) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	key := opts.SigningKey
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			logger.Error("session: generate signing key", zap.Error(err))
		}
		logger.Warn("session: using ephemeral signing key; set KONSTRUKSI_WEB_SESSION_SIGNING_KEY in production")
	}
	codec := sessionCodec{key: key, secure: opts.Secure}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sd, fromCookie := codec.read(r)
			if sd.ID == "" {
				now := time.Now().UTC()
				sd.ID = randID()
				sd.CreatedAt = now
				sd.UpdatedAt = now
				sd.CSRFToken = newCSRFToken()
				sd.dirty = true
			}
			ctx := context.WithValue(r.Context(), ctxKeySession, sd)

			rw := NewResponseRecorder(w)
			rw.SetBeforeWrite(func(w http.ResponseWriter) {
				if sd.dirty || !fromCookie {
					codec.write(w, sd)
				}
			})
			next.ServeHTTP(rw, r.WithContext(ctx))
			// nothing written, e.g. HEAD or an empty 200
			if !rw.Wrote() && (sd.dirty || !fromCookie) {
				codec.write(w, sd)
			}
		})
	}
}

// GetSession returns session data from context
func GetSession(r *http.Request) *SessionData {
	if sd, ok := r.Context().Value(ctxKeySession).(*SessionData); ok {
		return sd
	}
	return &SessionData{}
}

// MarkDirty flags the session for writing before the response header.
func (s *SessionData) MarkDirty() { s.dirty = true; s.UpdatedAt = time.Now().UTC() }

// SetFlash replaces the pending flash message.
func (s *SessionData) SetFlash(message string, severity layout.Severity) {
	s.Flash = &layout.Toast{Message: message, Severity: severity}
	s.MarkDirty()
}

// TakeFlash removes and returns the pending flash message.
func (s *SessionData) TakeFlash() (layout.Toast, bool) {
	if s.Flash == nil {
		return layout.Toast{}, false
	}
	t := *s.Flash
	s.Flash = nil
	s.MarkDirty()
	return t, true
}

// RegenerateID assigns a new session ID and CSRF token to prevent fixation after auth.
func (s *SessionData) RegenerateID() {
	s.ID = randID()
	s.CSRFToken = newCSRFToken()
	s.MarkDirty()
}

// read parses and verifies the session cookie
func (c sessionCodec) read(r *http.Request) (*SessionData, bool) {
	ck, err := r.Cookie(SessionCookieName)
	if err != nil || ck.Value == "" {
		return &SessionData{}, false
	}
	payload, sig, ok := strings.Cut(ck.Value, ".")
	if !ok {
		return &SessionData{}, false
	}
	payloadB, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return &SessionData{}, false
	}
	sigB, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return &SessionData{}, false
	}
	if !hmac.Equal(sigB, c.sign(payloadB)) {
		return &SessionData{}, false
	}
	var sd SessionData
	if err := json.Unmarshal(payloadB, &sd); err != nil {
		return &SessionData{}, false
	}
	return &sd, true
}

func (c sessionCodec) write(w http.ResponseWriter, sd *SessionData) {
	b, _ := json.Marshal(sd)
	val := base64.RawURLEncoding.EncodeToString(b) + "." + base64.RawURLEncoding.EncodeToString(c.sign(b))
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    val,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionMaxAge.Seconds()),
	})
	sd.dirty = false
}

func (c sessionCodec) sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, c.key)
	mac.Write(payload)
	return mac.Sum(nil)
}

// helpers
func randID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
