package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/bookingflow"
	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/rowaction"
	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/search"
	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/service"
	"github.com/gorilla/mux"
)

// Handler contains HTTP handlers for the API
type Handler struct {
	consoleService service.ConsoleService
}

// NewHandler creates a new Handler instance
func NewHandler(consoleService service.ConsoleService) *Handler {
	return &Handler{
		consoleService: consoleService,
	}
}

type openSessionRequest struct {
	TenantID string `json:"tenantId"`
	Paged    *bool  `json:"paged"`
}

type filterRequest struct {
	Value string `json:"value"`
}

type sortRequest struct {
	Column     string `json:"column"`
	Descending bool   `json:"descending"`
}

type pageSizeRequest struct {
	Size int `json:"size"`
}

type pointerRequest struct {
	BookingNo string `json:"bookingNo"`
}

type errorResponse struct {
	Error   string               `json:"error"`
	Session *service.SessionView `json:"session,omitempty"`
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondView writes the session view, or the error together with the view when
// the operation failed after reaching the session
func respondView(w http.ResponseWriter, status int, view *service.SessionView, err error) {
	if err != nil {
		respondJSON(w, statusFor(err), errorResponse{Error: err.Error(), Session: view})
		return
	}
	respondJSON(w, status, view)
}

func statusFor(err error) int {
	var verr *search.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrTenantRequired):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, rowaction.ErrUnknownRow):
		return http.StatusNotFound
	case errors.Is(err, rowaction.ErrActionNotAllowed),
		errors.Is(err, rowaction.ErrActionDisabled),
		errors.Is(err, bookingflow.ErrWorkflowBusy),
		errors.Is(err, bookingflow.ErrNotConfirming),
		errors.Is(err, bookingflow.ErrHallAlreadyBooked):
		return http.StatusConflict
	case errors.Is(err, search.ErrTransport), errors.Is(err, bookingflow.ErrTransport):
		return http.StatusBadGateway
	default:
		log.Printf("Unmapped error: %v", err)
		return http.StatusInternalServerError
	}
}

func decode(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// OpenSession handles POST /api/sessions
func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	var req openSessionRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	paged := true
	if req.Paged != nil {
		paged = *req.Paged
	}

	view, err := h.consoleService.OpenSession(r.Context(), req.TenantID, paged)
	respondView(w, http.StatusCreated, view, err)
}

// GetSession handles GET /api/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.consoleService.GetSession(r.Context(), mux.Vars(r)["id"])
	respondView(w, http.StatusOK, view, err)
}

// CloseSession handles DELETE /api/sessions/{id}
func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.consoleService.CloseSession(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SessionWebSocket guards ws so only open sessions can attach a socket
func (h *Handler) SessionWebSocket(ws http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := h.consoleService.GetSession(r.Context(), mux.Vars(r)["id"]); err != nil {
			respondError(w, statusFor(err), err.Error())
			return
		}
		ws(w, r)
	}
}

// ListHalls handles GET /api/sessions/{id}/halls
func (h *Handler) ListHalls(w http.ResponseWriter, r *http.Request) {
	halls, err := h.consoleService.ListHalls(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, halls)
}

// Search handles POST /api/sessions/{id}/search
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	view, err := h.consoleService.Search(r.Context(), mux.Vars(r)["id"])
	respondView(w, http.StatusOK, view, err)
}

// SetFilter handles PUT /api/sessions/{id}/filters/{field}
func (h *Handler) SetFilter(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var req filterRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.consoleService.SetFilter(r.Context(), vars["id"], vars["field"], req.Value)
	respondView(w, http.StatusOK, view, err)
}

// SetSort handles PUT /api/sessions/{id}/sort
func (h *Handler) SetSort(w http.ResponseWriter, r *http.Request) {
	var req sortRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.consoleService.SetSort(r.Context(), mux.Vars(r)["id"], req.Column, req.Descending)
	respondView(w, http.StatusOK, view, err)
}

// NextPage handles POST /api/sessions/{id}/pages/next
func (h *Handler) NextPage(w http.ResponseWriter, r *http.Request) {
	view, err := h.consoleService.NextPage(r.Context(), mux.Vars(r)["id"])
	respondView(w, http.StatusOK, view, err)
}

// PreviousPage handles POST /api/sessions/{id}/pages/previous
func (h *Handler) PreviousPage(w http.ResponseWriter, r *http.Request) {
	view, err := h.consoleService.PreviousPage(r.Context(), mux.Vars(r)["id"])
	respondView(w, http.StatusOK, view, err)
}

// SetPageSize handles PUT /api/sessions/{id}/page-size
func (h *Handler) SetPageSize(w http.ResponseWriter, r *http.Request) {
	var req pageSizeRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.consoleService.SetPageSize(r.Context(), mux.Vars(r)["id"], req.Size)
	respondView(w, http.StatusOK, view, err)
}

// Reset handles POST /api/sessions/{id}/reset
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	view, err := h.consoleService.Reset(r.Context(), mux.Vars(r)["id"])
	respondView(w, http.StatusOK, view, err)
}

// ToggleMenu handles POST /api/sessions/{id}/rows/{bookingNo}/menu
func (h *Handler) ToggleMenu(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	view, err := h.consoleService.ToggleMenu(r.Context(), vars["id"], vars["bookingNo"])
	respondView(w, http.StatusOK, view, err)
}

// PointerDown handles POST /api/sessions/{id}/pointer-down
func (h *Handler) PointerDown(w http.ResponseWriter, r *http.Request) {
	var req pointerRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.consoleService.PointerDown(r.Context(), mux.Vars(r)["id"], req.BookingNo)
	respondView(w, http.StatusOK, view, err)
}

// RequestCancel handles POST /api/sessions/{id}/rows/{bookingNo}/cancel
func (h *Handler) RequestCancel(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	view, err := h.consoleService.RequestCancel(r.Context(), vars["id"], vars["bookingNo"])
	respondView(w, http.StatusOK, view, err)
}

// ConfirmCancel handles POST /api/sessions/{id}/cancel/confirm
func (h *Handler) ConfirmCancel(w http.ResponseWriter, r *http.Request) {
	view, err := h.consoleService.ConfirmCancel(r.Context(), mux.Vars(r)["id"])
	respondView(w, http.StatusOK, view, err)
}

// DeclineCancel handles POST /api/sessions/{id}/cancel/decline
func (h *Handler) DeclineCancel(w http.ResponseWriter, r *http.Request) {
	view, err := h.consoleService.DeclineCancel(r.Context(), mux.Vars(r)["id"])
	respondView(w, http.StatusOK, view, err)
}

// CollectPayment handles POST /api/sessions/{id}/rows/{bookingNo}/payment
func (h *Handler) CollectPayment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	view, err := h.consoleService.CollectPayment(r.Context(), vars["id"], vars["bookingNo"])
	respondView(w, http.StatusOK, view, err)
}
