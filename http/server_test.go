package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"chirper/auth"
	"chirper/crud"
	"chirper/domain"
)

// newTestServer builds a server over a fresh in-memory database.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = db.AutoMigrate(
		&domain.User{},
		&domain.Follow{},
		&domain.Notification{},
		&domain.Post{},
		&domain.Like{},
		&domain.Comment{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	services, err := crud.NewServices(
		db,
		crud.WithUser(&fakeAssets{}, "pepper"),
		crud.WithFollow(),
		crud.WithNotification(),
		crud.WithPost(&fakeAssets{}),
		crud.WithLike(),
	)
	if err != nil {
		t.Fatalf("build services: %v", err)
	}
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewServer(false, "test-csrf-key", tokens, services)
}

// fakeAssets is an in-memory stand-in for the object storage.
type fakeAssets struct {
	uploads int
}

func (f *fakeAssets) Upload(ctx context.Context, payload string) (string, error) {
	f.uploads++
	return fmt.Sprintf("https://assets.test/uploads/img-%d", f.uploads), nil
}

func (f *fakeAssets) Destroy(ctx context.Context, assetKey string) error {
	return nil
}

var _ domain.AssetService = &fakeAssets{}

// doJSON runs a JSON request against the server, optionally with a session cookie.
func doJSON(t *testing.T, s *Server, method, target string, body interface{}, session *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	r := httptest.NewRequest(method, target, &buf)
	if session != nil {
		r.AddCookie(session)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, r)
	return w
}

// signupTestUser registers a user over HTTP and returns them with their session cookie.
func signupTestUser(t *testing.T, s *Server, username string) (*domain.User, *http.Cookie) {
	t.Helper()
	w := doJSON(t, s, "POST", "/api/auth/signup", map[string]string{
		"username": username,
		"fullName": "Test " + username,
		"email":    username + "@example.com",
		"password": "password123",
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup %s: expected 201, got %d (%s)", username, w.Code, w.Body.String())
	}
	var user domain.User
	if err := json.NewDecoder(w.Body).Decode(&user); err != nil {
		t.Fatalf("decode signup response: %v", err)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie {
			return &user, c
		}
	}
	t.Fatalf("signup %s: no session cookie set", username)
	return nil, nil
}
