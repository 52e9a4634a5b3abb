package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"chirper/auth"
	"chirper/domain"
	"chirper/errs"
)

func (s *Server) registerUserRoutes(r *mux.Router) {
	// Get the profile data of a specific user.
	r.HandleFunc("/api/users/profile/{username}", s.requireAuth(s.handleGetProfile)).Methods("GET")

	// Follow or unfollow a user.
	r.HandleFunc("/api/users/follow/{id:[0-9]+}", s.requireAuth(s.handleToggleFollow)).Methods("POST")

	// Get users the authed user might want to follow.
	r.HandleFunc("/api/users/suggested", s.requireAuth(s.handleGetSuggested)).Methods("GET")

	// Update the authed user's profile.
	r.HandleFunc("/api/users/update", s.requireAuth(s.handleUpdateProfile)).Methods("POST")
}

// handleGetProfile handles the route "GET /api/users/profile/{username}".
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	user, err := s.us.ByUsername(r.Context(), username)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(user); err != nil {
		errs.LogError(r, err)
	}
}

// handleToggleFollow handles the route "POST /api/users/follow/{id}".
// It follows the user with the given ID if the authed user doesn't follow
// them yet, and unfollows them otherwise.
func (s *Server) handleToggleFollow(w http.ResponseWriter, r *http.Request) {
	followedID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || followedID <= 0 {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid user ID format."))
		return
	}
	follower := auth.GetUser(r.Context())
	following, err := s.fs.Toggle(r.Context(), follower.ID, followedID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	message := "User unfollowed successfully"
	if following {
		message = "User followed successfully"
	}
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// handleGetSuggested handles the route "GET /api/users/suggested".
func (s *Server) handleGetSuggested(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	suggested, err := s.us.Suggested(r.Context(), user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(suggested); err != nil {
		errs.LogError(r, err)
	}
}

// handleUpdateProfile handles the route "POST /api/users/update".
// It reads the optional update fields from the json body and applies them
// to the authed user's record.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var upd domain.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid update data."))
		return
	}
	user := auth.GetUser(r.Context())
	updated, err := s.us.Update(r.Context(), user.ID, &upd)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(updated); err != nil {
		errs.LogError(r, err)
	}
}
