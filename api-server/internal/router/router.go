package router

import (
	"net/http"

	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/handlers"
	"github.com/gorilla/mux"
)

// NewRouter creates and configures the HTTP router. ws serves
// /api/sessions/{id}/ws and metrics serves /metrics; either may be nil.
func NewRouter(h *handlers.Handler, ws http.HandlerFunc, metrics http.Handler) *mux.Router {
	r := mux.NewRouter()

	// CORS middleware
	r.Use(corsMiddleware)

	// API routes
	api := r.PathPrefix("/api").Subrouter()
	RegisterSessionRoutes(api, h)

	// WebSocket for session events
	if ws != nil {
		api.HandleFunc("/sessions/{id}/ws", h.SessionWebSocket(ws))
	}

	if metrics != nil {
		r.Handle("/metrics", metrics).Methods(http.MethodGet)
	}

	// Health check
	r.HandleFunc("/health", healthCheck).Methods(http.MethodGet)

	return r
}

// RegisterSessionRoutes mounts the console session endpoints on api
func RegisterSessionRoutes(api *mux.Router, h *handlers.Handler) {
	// Sessions
	api.HandleFunc("/sessions", h.OpenSession).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/sessions/{id}", h.GetSession).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/sessions/{id}", h.CloseSession).Methods(http.MethodDelete, http.MethodOptions)
	api.HandleFunc("/sessions/{id}/halls", h.ListHalls).Methods(http.MethodGet, http.MethodOptions)

	// Search form and pagination
	api.HandleFunc("/sessions/{id}/search", h.Search).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/sessions/{id}/filters/{field}", h.SetFilter).Methods(http.MethodPut, http.MethodOptions)
	api.HandleFunc("/sessions/{id}/sort", h.SetSort).Methods(http.MethodPut, http.MethodOptions)
	api.HandleFunc("/sessions/{id}/pages/next", h.NextPage).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/sessions/{id}/pages/previous", h.PreviousPage).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/sessions/{id}/page-size", h.SetPageSize).Methods(http.MethodPut, http.MethodOptions)
	api.HandleFunc("/sessions/{id}/reset", h.Reset).Methods(http.MethodPost, http.MethodOptions)

	// Row actions
	api.HandleFunc("/sessions/{id}/rows/{bookingNo}/menu", h.ToggleMenu).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/sessions/{id}/pointer-down", h.PointerDown).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/sessions/{id}/rows/{bookingNo}/cancel", h.RequestCancel).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/sessions/{id}/cancel/confirm", h.ConfirmCancel).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/sessions/{id}/cancel/decline", h.DeclineCancel).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/sessions/{id}/rows/{bookingNo}/payment", h.CollectPayment).Methods(http.MethodPost, http.MethodOptions)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
