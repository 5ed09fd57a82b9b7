package handler

import (
	"net/http"

	"bookcom/internal/bookings/service"
	httputil "bookcom/pkg/http"
	"bookcom/pkg/logger"
	"bookcom/pkg/middleware"
	"bookcom/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	guard   func(httprouter.Handle) httprouter.Handle
	log     *logger.Logger
}

// NewBookingHandler wires the booking routes. guard wraps the routes that
// need a session.
func NewBookingHandler(service service.BookingService, guard func(httprouter.Handle) httprouter.Handle, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

func (h *BookingHandler) Claim(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	bookings, err := h.service.Claim(r.Context(), identity)
	if err != nil {
		h.writeError(w, "Claim", err)
		return
	}

	if err := httputil.WriteOK(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "Claim", "operation", "WriteOK", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteOK(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteOK", "error", err)
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking model.Booking
	if err := httputil.DecodeJSON(r, &booking); err != nil {
		h.writeError(w, "Create", httputil.DecodeFailure(err))
		return
	}

	result, err := h.service.Create(r.Context(), booking)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteOK(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Create", "operation", "WriteOK", "error", err)
	}
}

func (h *BookingHandler) UpdateTime(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.BookingTimeUpdate
	if err := httputil.DecodeJSON(r, &update); err != nil {
		h.writeError(w, "UpdateTime", httputil.DecodeFailure(err))
		return
	}

	result, err := h.service.UpdateTime(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		h.writeError(w, "UpdateTime", err)
		return
	}

	if err := httputil.WriteOK(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateTime", "operation", "WriteOK", "error", err)
	}
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	result, err := h.service.Delete(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if err := httputil.WriteOK(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Delete", "operation", "WriteOK", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/bookings", h.guard(h.Claim))
	router.GET("/bookings/:id", h.GetByID)
	router.POST("/bookings", h.Create)
	router.PUT("/bookings/:id", h.guard(h.UpdateTime))
	router.DELETE("/bookings/:id", h.Delete)
}
