package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"chirper/auth"
	"chirper/errs"
)

func (s *Server) registerNotificationRoutes(r *mux.Router) {
	r.HandleFunc("/api/notifications", s.requireAuth(s.handleGetNotifications)).Methods("GET")
	r.HandleFunc("/api/notifications", s.requireAuth(s.handleDeleteNotifications)).Methods("DELETE")
}

// handleGetNotifications handles the route "GET /api/notifications".
// Fetching the list marks the returned notifications as read.
func (s *Server) handleGetNotifications(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	notifications, err := s.ns.ByUser(r.Context(), user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(notifications); err != nil {
		errs.LogError(r, err)
	}
}

// handleDeleteNotifications handles the route "DELETE /api/notifications".
func (s *Server) handleDeleteNotifications(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	if err := s.ns.DeleteAll(r.Context(), user.ID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"message": "Notifications deleted successfully"})
}
