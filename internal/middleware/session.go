package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/suntrail/agency-server/internal/config"
	"github.com/suntrail/agency-server/internal/model"
	"github.com/suntrail/agency-server/internal/repository"
)

const AdminSessionCookie = "admin_session"

type contextKey string

const SessionContextKey contextKey = "adminSession"

func GetSession(ctx context.Context) *model.Session {
	if session, ok := ctx.Value(SessionContextKey).(*model.Session); ok {
		return session
	}
	return nil
}

// CookieConfig fixes the session cookie attributes once at startup so the
// set and clear paths can never disagree. A clear with a different path
// silently fails to remove the cookie in most jars.
type CookieConfig struct {
	Name   string
	Path   string
	Secure bool
	MaxAge time.Duration
}

func NewCookieConfig(secure bool) CookieConfig {
	return CookieConfig{
		Name:   AdminSessionCookie,
		Path:   "/",
		Secure: secure,
		MaxAge: config.AdminSessionTTL,
	}
}

func (c CookieConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("cookie name must not be empty")
	}
	if c.Path == "" {
		return fmt.Errorf("cookie path must not be empty")
	}
	if c.MaxAge <= 0 {
		return fmt.Errorf("cookie max age must be positive")
	}
	return nil
}

// SessionMiddleware is the request-time gate for admin routes. Handler is
// the API shape (JSON deny); RequirePage is the page shape (redirect deny).
// Both run the same guard and fail closed.
type SessionMiddleware struct {
	sessionRepo repository.SessionRepository
	cookie      CookieConfig
	loginPath   string
}

func NewSessionMiddleware(
	sessionRepo repository.SessionRepository,
	cookie CookieConfig,
	loginPath string,
) *SessionMiddleware {
	return &SessionMiddleware{
		sessionRepo: sessionRepo,
		cookie:      cookie,
		loginPath:   loginPath,
	}
}

// guard resolves the request's cookie to a session. The bool reports
// whether the store could be consulted: (nil, false) is a store failure,
// (nil, true) is a plain deny.
func (m *SessionMiddleware) guard(r *http.Request) (*model.Session, bool) {
	token := m.ReadCookie(r)
	if token == "" {
		return nil, true
	}

	session, err := m.sessionRepo.FindValid(r.Context(), token)
	if err != nil {
		log.Error().Err(err).Msg("session guard: database error")
		return nil, false
	}

	return session, true
}

func (m *SessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, storeOK := m.guard(r)
		if !storeOK {
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "Session validation failed",
			})
			return
		}
		if session == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Unauthorized",
			})
			return
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePage redirects every deny to the login page, store failures
// included: an unreachable store never lets a page through.
func (m *SessionMiddleware) RequirePage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, storeOK := m.guard(r)
		if !storeOK || session == nil {
			http.Redirect(w, r, m.loginPath, http.StatusFound)
			return
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *SessionMiddleware) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie.Name,
		Value:    token,
		Path:     m.cookie.Path,
		MaxAge:   int(m.cookie.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (m *SessionMiddleware) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie.Name,
		Value:    "",
		Path:     m.cookie.Path,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (m *SessionMiddleware) ReadCookie(r *http.Request) string {
	cookie, err := r.Cookie(m.cookie.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
