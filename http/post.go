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

func (s *Server) registerPostRoutes(r *mux.Router) {
	r.HandleFunc("/api/posts/create", s.requireAuth(s.handleCreatePost)).Methods("POST")
	r.HandleFunc("/api/posts/{id:[0-9]+}", s.requireAuth(s.handleDeletePost)).Methods("DELETE")
	r.HandleFunc("/api/posts/like/{id:[0-9]+}", s.requireAuth(s.handleToggleLike)).Methods("POST")
	r.HandleFunc("/api/posts/comment/{id:[0-9]+}", s.requireAuth(s.handleCommentPost)).Methods("POST")

	// Feeds.
	r.HandleFunc("/api/posts/all", s.requireAuth(s.handleAllPosts)).Methods("GET")
	r.HandleFunc("/api/posts/following", s.requireAuth(s.handleFollowingPosts)).Methods("GET")
	r.HandleFunc("/api/posts/user/{username}", s.requireAuth(s.handleUserPosts)).Methods("GET")
	r.HandleFunc("/api/posts/likes/{id:[0-9]+}", s.requireAuth(s.handleLikedPosts)).Methods("GET")
}

// handleCreatePost handles the route "POST /api/posts/create".
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
		Img  string `json:"img"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid post data."))
		return
	}
	user := auth.GetUser(r.Context())
	post := domain.Post{
		UserID: user.ID,
		Text:   req.Text,
		Img:    req.Img,
	}
	if err := s.ps.Create(r.Context(), &post); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	created, err := s.ps.ByID(r.Context(), post.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(created); err != nil {
		errs.LogError(r, err)
	}
}

// handleDeletePost handles the route "DELETE /api/posts/{id}".
func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || postID <= 0 {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid post ID format."))
		return
	}
	user := auth.GetUser(r.Context())
	if err := s.ps.Delete(r.Context(), user.ID, postID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"message": "Post deleted successfully"})
}

// handleToggleLike handles the route "POST /api/posts/like/{id}".
func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || postID <= 0 {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid post ID format."))
		return
	}
	user := auth.GetUser(r.Context())
	liked, err := s.ls.Toggle(r.Context(), user.ID, postID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	message := "Post unliked successfully"
	if liked {
		message = "Post liked successfully"
	}
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// handleCommentPost handles the route "POST /api/posts/comment/{id}".
// It returns the commented post with all its comments.
func (s *Server) handleCommentPost(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || postID <= 0 {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid post ID format."))
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid comment data."))
		return
	}
	user := auth.GetUser(r.Context())
	comment := domain.Comment{
		UserID: user.ID,
		PostID: postID,
		Text:   req.Text,
	}
	if err := s.ps.Comment(r.Context(), &comment); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	post, err := s.ps.ByID(r.Context(), postID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(post); err != nil {
		errs.LogError(r, err)
	}
}

// handleAllPosts handles the route "GET /api/posts/all".
func (s *Server) handleAllPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.ps.All(r.Context())
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(posts); err != nil {
		errs.LogError(r, err)
	}
}

// handleFollowingPosts handles the route "GET /api/posts/following".
func (s *Server) handleFollowingPosts(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	posts, err := s.ps.FollowingFeed(r.Context(), user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(posts); err != nil {
		errs.LogError(r, err)
	}
}

// handleUserPosts handles the route "GET /api/posts/user/{username}".
func (s *Server) handleUserPosts(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	posts, err := s.ps.ByUsername(r.Context(), username)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(posts); err != nil {
		errs.LogError(r, err)
	}
}

// handleLikedPosts handles the route "GET /api/posts/likes/{id}".
func (s *Server) handleLikedPosts(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || userID <= 0 {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid user ID format."))
		return
	}
	posts, err := s.ps.Liked(r.Context(), userID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(posts); err != nil {
		errs.LogError(r, err)
	}
}
