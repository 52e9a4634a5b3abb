package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestErrorCodeAndMessage(t *testing.T) {
	err := Errorf(ENOTFOUND, "User not found.")
	if ErrorCode(err) != ENOTFOUND {
		t.Fatalf("expected %s, got %s", ENOTFOUND, ErrorCode(err))
	}
	if ErrorMessage(err) != "User not found." {
		t.Fatalf("unexpected message %q", ErrorMessage(err))
	}

	// Wrapped application errors keep their code.
	wrapped := fmt.Errorf("context: %w", Errorf(ECONFLICT, "Email is already in use."))
	if ErrorCode(wrapped) != ECONFLICT {
		t.Fatalf("expected %s, got %s", ECONFLICT, ErrorCode(wrapped))
	}

	// Unknown errors count as internal and their details stay hidden.
	plain := errors.New("pq: connection refused")
	if ErrorCode(plain) != EINTERNAL {
		t.Fatalf("expected %s, got %s", EINTERNAL, ErrorCode(plain))
	}
	if ErrorMessage(plain) == plain.Error() {
		t.Fatal("internal error details must not leak to the user")
	}

	if ErrorCode(nil) != "" || ErrorMessage(nil) != "" {
		t.Fatal("nil error must yield empty code and message")
	}
}

func TestErrorStatusCode(t *testing.T) {
	cases := map[string]int{
		EINVALID:      http.StatusBadRequest,
		EUNAUTHORIZED: http.StatusUnauthorized,
		ENOTFOUND:     http.StatusNotFound,
		ECONFLICT:     http.StatusConflict,
		EINTERNAL:     http.StatusInternalServerError,
		"bogus":       http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := ErrorStatusCode(code); got != want {
			t.Fatalf("code %s: expected %d, got %d", code, want, got)
		}
	}
}

func TestReturnError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/users/profile/nobody", nil)

	ReturnError(w, r, Errorf(ENOTFOUND, "User not found."))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "User not found." {
		t.Fatalf("unexpected body %v", body)
	}
}
