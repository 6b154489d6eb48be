package middleware

import (
	"crypto/hmac"
	"log/slog"
	"net/http"
)

// CSRF validates CSRF tokens for state-changing requests using the
// Synchronizer Token Pattern: the expected token lives in the server-side
// session, the form mirrors it in a hidden field.
//
// The login POST is not routed through this middleware; its handler runs the
// check itself so a failure re-renders the form instead of a bare 403.
//
// Token sources (checked in order):
// - Form field: csrf_token
// - Header: X-CSRF-Token
func CSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Safe methods carry no state change
		if isSafeMethod(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		session, ok := GetSession(r.Context())
		if !ok {
			logCSRFFailure(r, 0, "no session")
			http.Error(w, "Error de seguridad. Intenta nuevamente.", http.StatusForbidden)
			return
		}

		submittedToken := extractCSRFToken(r)
		if submittedToken == "" {
			logCSRFFailure(r, session.UserID, "missing token")
			http.Error(w, "Error de seguridad. Intenta nuevamente.", http.StatusForbidden)
			return
		}

		if session.CSRFToken == "" ||
			!hmac.Equal([]byte(session.CSRFToken), []byte(submittedToken)) {
			logCSRFFailure(r, session.UserID, "invalid token")
			http.Error(w, "Error de seguridad. Intenta nuevamente.", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// isSafeMethod returns true if the HTTP method is idempotent and cacheable.
func isSafeMethod(method string) bool {
	return method == http.MethodGet ||
		method == http.MethodHead ||
		method == http.MethodOptions
}

// extractCSRFToken extracts the CSRF token from the request.
func extractCSRFToken(r *http.Request) string {
	token := r.FormValue("csrf_token")
	if token != "" {
		return token
	}

	return r.Header.Get("X-CSRF-Token")
}

// logCSRFFailure logs a security event when CSRF validation fails.
// Useful for monitoring and detecting potential CSRF attacks.
func logCSRFFailure(r *http.Request, userID int64, reason string) {
	slog.Warn("CSRF validation failed",
		slog.Int64("user_id", userID),
		slog.String("reason", reason),
		slog.String("method", r.Method),
		slog.String("path", r.RequestURI),
		slog.String("remote_addr", r.RemoteAddr),
	)
}
