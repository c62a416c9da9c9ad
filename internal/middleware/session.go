package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"counselpost/internal/httputil"
)

const sessionCookie = "counselpost_session"

// SessionManager issues and verifies the browser session cookie. The cookie
// carries an HMAC-signed token with an opaque session id; it identifies a
// review session, nothing more.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	logger *slog.Logger
}

// NewSessionManager creates a session manager signing with secret.
func NewSessionManager(secret string, ttl time.Duration, secure bool, logger *slog.Logger) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		logger: logger,
	}
}

// Middleware attaches a session id to every request, minting a fresh cookie
// when none is present or the token fails verification.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := m.verify(r)
		if sessionID == "" {
			sessionID = uuid.NewString()
			m.issue(w, sessionID)
		}
		next.ServeHTTP(w, httputil.WithSessionID(r, sessionID))
	})
}

func (m *SessionManager) verify(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return ""
	}

	token, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return ""
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	sid, _ := claims["sid"].(string)
	return sid
}

func (m *SessionManager) issue(w http.ResponseWriter, sessionID string) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sessionID,
		"iat": now.Unix(),
		"exp": now.Add(m.ttl).Unix(),
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		m.logger.Error("failed to sign session token", "error", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
