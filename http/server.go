package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"chirper/auth"
	"chirper/crud"
	"chirper/domain"
	"chirper/errs"
)

// Server provides the http functionality of this app, namely routing,
// request handling, and middleware. It also performs authentication and
// authorization before handing things over to one of the crud services.
type Server struct {
	router *mux.Router
	tokens *auth.TokenManager
	isProd bool
	us     domain.UserService
	fs     domain.FollowService
	ns     domain.NotificationService
	ps     domain.PostService
	ls     domain.LikeService
}

// NewServer returns a new instance of the server, registers all necessary
// routes and gives their handlers access to the app services passed in.
func NewServer(isProd bool, csrfKey string, tokens *auth.TokenManager, services *crud.Services) *Server {
	s := &Server{
		router: mux.NewRouter(),
		tokens: tokens,
		isProd: isProd,
		us:     services.User,
		fs:     services.Follow,
		ns:     services.Notification,
		ps:     services.Post,
		ls:     services.Like,
	}

	// Register routes of the auth system.
	s.registerAuthRoutes(s.router)

	// Register routes of the crud system.
	s.registerUserRoutes(s.router)
	s.registerNotificationRoutes(s.router)
	s.registerPostRoutes(s.router)

	// Set up middleware that needs to run on every request. CSRF protection
	// only runs in production, the SPA dev server posts without a token.
	if isProd {
		csrfMw := csrf.Protect([]byte(csrfKey), csrf.Secure(true), csrf.Path("/"))
		s.router.Use(csrfMw)
	}
	s.router.Use(setContentTypeJSON, s.checkUser)
	return s
}

// The setContentTypeJSON middleware sets the content type to "application/json".
func setContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// The checkUser middleware identifies the requesting user by the JWT in the
// session cookie and attaches them to the request context. Requests without
// a valid cookie pass through anonymously; requireAuth decides per route
// whether that's acceptable.
func (s *Server) checkUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		userID, err := s.tokens.Verify(cookie.Value)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		user, err := s.us.ByID(r.Context(), userID)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		r = r.WithContext(auth.SetUser(r.Context(), user))
		next.ServeHTTP(w, r)
	})
}

// requireAuth rejects requests that carry no authenticated user.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.GetUser(r.Context()) == nil {
			errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "You must be logged in."))
			return
		}
		next.ServeHTTP(w, r)
	}
}

// Run starts to listen and serve on the specified port.
func (s *Server) Run(port int) {
	addr := ":" + strconv.Itoa(port)
	logrus.WithField("addr", addr).Info("server listening")
	logrus.Fatal(http.ListenAndServe(addr, s.router))
}
