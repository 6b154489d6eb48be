package middleware

import (
	"context"
	"errors"
	"net/http"

	"agencia-viajes/internal/domain"
	"agencia-viajes/internal/observability"
)

type contextKey string

const (
	// SessionCookie is the name of the cookie carrying the session token.
	SessionCookie = "session_id"

	sessionKey contextKey = "session"
)

// LoadSession resolves the session cookie into a session row and attaches it
// to the request context. Requests without a valid session pass through
// unchanged; handlers and the Require* middlewares decide what is mandatory.
func LoadSession(sessionRepo domain.SessionRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			session, err := sessionRepo.GetByToken(r.Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, domain.ErrSessionNotFound) || errors.Is(err, domain.ErrSessionExpired) {
					// Stale cookie: clear it so the browser stops sending it
					http.SetCookie(w, &http.Cookie{
						Name:     SessionCookie,
						Value:    "",
						Path:     "/",
						MaxAge:   -1,
						HttpOnly: true,
						SameSite: http.SameSiteLaxMode,
					})
					next.ServeHTTP(w, r)
					return
				}
				// Store unavailable: the cookie may still reference a
				// valid session, so keep it and fail the request
				observability.FromContext(r.Context()).Error("session lookup failed", "error", err)
				http.Error(w, "Error interno. Intenta más tarde.", http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// RequireAuth redirects unauthenticated requests to the login page.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := GetSession(r.Context())
		if !ok || !session.Authenticated() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests whose session does not carry the admin role.
// Unauthenticated requests are sent to the login page; authenticated
// non-admins get 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := GetSession(r.Context())
		if !ok || !session.Authenticated() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if session.Role != domain.RoleAdmin {
			http.Error(w, "Acceso denegado", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSession returns the session attached to the context, if any.
func GetSession(ctx context.Context) (*domain.Session, bool) {
	session, ok := ctx.Value(sessionKey).(*domain.Session)
	return session, ok
}

// WithSession attaches a session to the context.
func WithSession(ctx context.Context, session *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}
