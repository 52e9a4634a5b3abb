package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"chirper/auth"
	"chirper/domain"
	"chirper/errs"
)

// sessionCookie is the name of the cookie carrying the session JWT.
const sessionCookie = "jwt"

func (s *Server) registerAuthRoutes(r *mux.Router) {
	r.HandleFunc("/api/auth/signup", s.handleSignup).Methods("POST")
	r.HandleFunc("/api/auth/login", s.handleLogin).Methods("POST")
	r.HandleFunc("/api/auth/logout", s.handleLogout).Methods("POST")
	r.HandleFunc("/api/auth/me", s.requireAuth(s.handleMe)).Methods("GET")
}

// handleSignup handles the route "POST /api/auth/signup".
// It creates a new user and signs them in right away.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		FullName string `json:"fullName"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid signup data."))
		return
	}
	user := domain.User{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	}
	if err := s.us.Create(r.Context(), &user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := s.signIn(w, &user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&user); err != nil {
		errs.LogError(r, err)
	}
}

// handleLogin handles the route "POST /api/auth/login".
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid login data."))
		return
	}
	user, err := s.us.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := s.signIn(w, user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(user); err != nil {
		errs.LogError(r, err)
	}
}

// handleLogout handles the route "POST /api/auth/logout".
// Sessions are stateless, so logging out is just expiring the cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   s.isProd,
	})
	json.NewEncoder(w).Encode(map[string]string{"message": "Logged out successfully"})
}

// handleMe handles the route "GET /api/auth/me".
// It returns the authenticated user's own profile.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	me := auth.GetUser(r.Context())
	user, err := s.us.ByUsername(r.Context(), me.Username)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(user); err != nil {
		errs.LogError(r, err)
	}
}

// signIn is used to sign the given user in via the session cookie.
func (s *Server) signIn(w http.ResponseWriter, user *domain.User) error {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.tokens.Duration().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   s.isProd,
	})
	return nil
}
