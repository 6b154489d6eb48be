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

const (
	msgRegisterInvalid = "Revisa los datos ingresados: usuario de 3 a 50 caracteres, correo válido y contraseña de al menos 8 caracteres."
	msgEmailExists     = "Ese correo ya está registrado."
	msgUsernameExists  = "Ese nombre de usuario ya está en uso."
)

// RegisterHandler serves the account creation form.
type RegisterHandler struct {
	authService *service.AuthService
	renderer    *web.Renderer
}

func NewRegisterHandler(authService *service.AuthService, renderer *web.Renderer) *RegisterHandler {
	return &RegisterHandler{
		authService: authService,
		renderer:    renderer,
	}
}

// ShowForm handles GET /registro.
func (h *RegisterHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
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

	h.renderer.Render(w, r, http.StatusOK, "registro.html", web.PageData{
		Session:   session,
		CSRFToken: csrfToken,
	})
}

// Submit handles POST /registro. Routed behind the CSRF middleware. A new
// account is not logged in automatically; the user is sent to the login page.
func (h *RegisterHandler) Submit(w http.ResponseWriter, r *http.Request) {
	logger := observability.FromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, r, http.StatusBadRequest, msgRegisterInvalid, nil)
		return
	}

	session, _ := middleware.GetSession(r.Context())
	username := r.PostFormValue("username")
	email := r.PostFormValue("email")

	_, err := h.authService.Register(r.Context(), username, email, r.PostFormValue("password"))
	if err != nil {
		var status int
		var message string
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			status, message = http.StatusUnprocessableEntity, msgRegisterInvalid
		case errors.Is(err, domain.ErrEmailExists):
			status, message = http.StatusConflict, msgEmailExists
		case errors.Is(err, domain.ErrUsernameExists):
			status, message = http.StatusConflict, msgUsernameExists
		default:
			status, message = http.StatusInternalServerError, msgInternalError
			logger.Error("registering user", "error", err)
		}

		h.renderer.Render(w, r, status, "registro.html", web.PageData{
			Session:   session,
			CSRFToken: sessionCSRF(session),
			Error:     message,
			Username:  username,
			Email:     email,
		})
		return
	}

	logger.Info("user registered", "username", username)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
