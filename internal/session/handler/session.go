package handler

import (
	"io"
	"net/http"

	"bookcom/internal/session/service"
	httputil "bookcom/pkg/http"
	"bookcom/pkg/logger"
	"bookcom/pkg/middleware"
	"bookcom/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type SessionHandler struct {
	service service.SessionService
	log     *logger.Logger
}

func NewSessionHandler(service service.SessionService, log *logger.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		log:     log,
	}
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var identity model.Identity
	if err := httputil.DecodeJSON(r, &identity); err != nil {
		h.writeError(w, "Login", httputil.DecodeFailure(err))
		return
	}

	cookie, err := h.service.Issue(&identity)
	if err != nil {
		h.writeError(w, "Login", err)
		return
	}

	http.SetCookie(w, cookie)
	if err := httputil.WriteSuccess(w); err != nil {
		h.log.Error("failed to write success response", "handler", "Login", "operation", "WriteSuccess", "error", err)
	}
}

// Logout clears the session cookie whatever the body holds.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	_, _ = io.Copy(io.Discard, r.Body)

	http.SetCookie(w, h.service.Revoke())
	h.log.Info("Session cookie cleared", "request_id", middleware.RequestIDFromContext(r.Context()))
	if err := httputil.WriteSuccess(w); err != nil {
		h.log.Error("failed to write success response", "handler", "Logout", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SessionHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *SessionHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/jwt", h.Login)
	router.POST("/logOut", h.Logout)
}
