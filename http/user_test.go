package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"chirper/domain"
)

func TestToggleFollowRoute(t *testing.T) {
	s := newTestServer(t)
	_, session := signupTestUser(t, s, "u1")
	u2, _ := signupTestUser(t, s, "u2")

	target := fmt.Sprintf("/api/users/follow/%d", u2.ID)

	w := doJSON(t, s, "POST", target, nil, session)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["message"] != "User followed successfully" {
		t.Fatalf("unexpected message %q", body["message"])
	}

	w = doJSON(t, s, "POST", target, nil, session)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["message"] != "User unfollowed successfully" {
		t.Fatalf("unexpected message %q", body["message"])
	}

	// Anonymous requests are rejected.
	w = doJSON(t, s, "POST", target, nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestGetProfileRoute(t *testing.T) {
	s := newTestServer(t)
	u1, session := signupTestUser(t, s, "u1")
	u2, _ := signupTestUser(t, s, "u2")

	w := doJSON(t, s, "POST", fmt.Sprintf("/api/users/follow/%d", u2.ID), nil, session)
	if w.Code != http.StatusOK {
		t.Fatalf("follow: expected 200, got %d", w.Code)
	}

	w = doJSON(t, s, "GET", "/api/users/profile/u2", nil, session)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var profile domain.User
	if err := json.NewDecoder(w.Body).Decode(&profile); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if profile.Username != "u2" {
		t.Fatalf("expected profile u2, got %q", profile.Username)
	}
	if len(profile.Followers) != 1 || profile.Followers[0] != u1.ID {
		t.Fatalf("expected followers [%d], got %v", u1.ID, profile.Followers)
	}

	w = doJSON(t, s, "GET", "/api/users/profile/nobody", nil, session)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestSuggestedRoute(t *testing.T) {
	s := newTestServer(t)
	_, session := signupTestUser(t, s, "u1")
	u2, _ := signupTestUser(t, s, "u2")
	signupTestUser(t, s, "u3")

	w := doJSON(t, s, "POST", fmt.Sprintf("/api/users/follow/%d", u2.ID), nil, session)
	if w.Code != http.StatusOK {
		t.Fatalf("follow: expected 200, got %d", w.Code)
	}

	w = doJSON(t, s, "GET", "/api/users/suggested", nil, session)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var suggested []domain.User
	if err := json.NewDecoder(w.Body).Decode(&suggested); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(suggested) != 1 || suggested[0].Username != "u3" {
		t.Fatalf("expected only u3 suggested, got %+v", suggested)
	}
}

func TestUpdateProfileRoute(t *testing.T) {
	s := newTestServer(t)
	_, session := signupTestUser(t, s, "u1")

	w := doJSON(t, s, "POST", "/api/users/update", map[string]string{
		"bio":  "hello there",
		"link": "https://example.com",
	}, session)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var updated domain.User
	if err := json.NewDecoder(w.Body).Decode(&updated); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if updated.Bio != "hello there" || updated.Link != "https://example.com" {
		t.Fatalf("unexpected update result %+v", updated)
	}

	// Validation failures come back as 400 with an error body.
	w = doJSON(t, s, "POST", "/api/users/update", map[string]string{
		"newPassword": "new-password",
	}, session)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] == "" {
		t.Fatal("expected an error message in the body")
	}
}
