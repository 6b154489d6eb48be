package handler

import (
	"net/http"

	"agencia-viajes/internal/middleware"
	"agencia-viajes/internal/observability"
	"agencia-viajes/internal/service"
	"agencia-viajes/internal/web"
)

// AdminHandler serves the administration panel. Routed behind RequireAdmin.
type AdminHandler struct {
	authService *service.AuthService
	renderer    *web.Renderer
}

func NewAdminHandler(authService *service.AuthService, renderer *web.Renderer) *AdminHandler {
	return &AdminHandler{
		authService: authService,
		renderer:    renderer,
	}
}

// Dashboard handles GET /administracion.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSession(r.Context())

	users, err := h.authService.Users(r.Context())
	if err != nil {
		observability.FromContext(r.Context()).Error("listing users", "error", err)
		h.renderer.RenderError(w, r, http.StatusInternalServerError, msgInternalError, session)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "administracion.html", web.PageData{
		Session:   session,
		CSRFToken: sessionCSRF(session),
		Users:     users,
	})
}
