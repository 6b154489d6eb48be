package handler

import (
	"errors"
	"net/http"

	"agencia-viajes/internal/domain"
	"agencia-viajes/internal/middleware"
	"agencia-viajes/internal/observability"
	"agencia-viajes/internal/service"
	"agencia-viajes/internal/web"
)

// User-facing messages for each login failure mode. The unknown-email and
// wrong-password cases share one message on purpose.
const (
	msgSecurityError      = "Error de seguridad. Intenta nuevamente."
	msgInvalidInput       = "Correo o contraseña inválidos."
	msgInvalidCredentials = "Correo o contraseña incorrectos."
	msgInternalError      = "Error interno. Intenta más tarde."
)

// LoginHandler serves the login form and processes submissions.
type LoginHandler struct {
	authService *service.AuthService
	renderer    *web.Renderer
}

func NewLoginHandler(authService *service.AuthService, renderer *web.Renderer) *LoginHandler {
	return &LoginHandler{
		authService: authService,
		renderer:    renderer,
	}
}

// ShowForm handles GET /login. Logged-in users are sent home; everyone else
// gets a session (created on first visit) and the form with its CSRF token.
func (h *LoginHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	logger := observability.FromContext(r.Context())

	session, ok := middleware.GetSession(r.Context())
	if ok && session.Authenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if !ok {
		var err error
		session, err = h.authService.StartSession(r.Context())
		if err != nil {
			logger.Error("starting session", "error", err)
			h.renderer.RenderError(w, r, http.StatusInternalServerError, msgInternalError, nil)
			return
		}
		setSessionCookie(w, session)
	}

	csrfToken, err := h.authService.EnsureCSRFToken(r.Context(), session)
	if err != nil {
		logger.Error("issuing csrf token", "error", err)
		h.renderer.RenderError(w, r, http.StatusInternalServerError, msgInternalError, session)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "login.html", web.PageData{
		Session:   session,
		CSRFToken: csrfToken,
	})
}

// Submit handles POST /login. Failures re-render the form with the matching
// message and the still-valid CSRF token so the user can retry; success sets
// the regenerated session cookie and redirects by role.
func (h *LoginHandler) Submit(w http.ResponseWriter, r *http.Request) {
	logger := observability.FromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		observability.LoginAttemptsTotal.WithLabelValues("invalid_input").Inc()
		h.renderer.RenderError(w, r, http.StatusBadRequest, msgInvalidInput, nil)
		return
	}

	session, _ := middleware.GetSession(r.Context())
	email := r.PostFormValue("email")

	authenticated, redirect, err := h.authService.Login(
		r.Context(),
		session,
		r.PostFormValue("csrf_token"),
		email,
		r.PostFormValue("password"),
	)
	if err != nil {
		h.renderFailure(w, r, session, email, err)
		return
	}

	observability.LoginAttemptsTotal.WithLabelValues("success").Inc()
	logger.Info("user logged in",
		"user_id", authenticated.UserID,
		"role", authenticated.Role)

	setSessionCookie(w, authenticated)
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

func (h *LoginHandler) renderFailure(w http.ResponseWriter, r *http.Request, session *domain.Session, email string, err error) {
	logger := observability.FromContext(r.Context())

	var status int
	var message, outcome string
	switch {
	case errors.Is(err, domain.ErrSecurityCheck):
		status, message, outcome = http.StatusForbidden, msgSecurityError, "security_error"
	case errors.Is(err, domain.ErrInvalidInput):
		status, message, outcome = http.StatusUnprocessableEntity, msgInvalidInput, "invalid_input"
	case errors.Is(err, domain.ErrInvalidCredentials):
		status, message, outcome = http.StatusUnauthorized, msgInvalidCredentials, "invalid_credentials"
	default:
		status, message, outcome = http.StatusInternalServerError, msgInternalError, "internal_error"
		logger.Error("login failed", "error", err)
	}
	observability.LoginAttemptsTotal.WithLabelValues(outcome).Inc()

	// The stored CSRF token survives a rejected attempt, so the re-rendered
	// form can reuse it. A request without any session gets a fresh one.
	if session == nil {
		var startErr error
		session, startErr = h.authService.StartSession(r.Context())
		if startErr != nil {
			logger.Error("starting session", "error", startErr)
			h.renderer.RenderError(w, r, http.StatusInternalServerError, msgInternalError, nil)
			return
		}
		setSessionCookie(w, session)
	}

	h.renderer.Render(w, r, status, "login.html", web.PageData{
		Session:   session,
		CSRFToken: session.CSRFToken,
		Error:     message,
		Email:     email,
	})
}

// Logout handles POST /logout. Routed behind the CSRF middleware.
func (h *LoginHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if ok {
		if err := h.authService.Logout(r.Context(), session.Token); err != nil {
			observability.FromContext(r.Context()).Error("destroying session", "error", err)
		}
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
