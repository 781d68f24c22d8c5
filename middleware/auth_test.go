package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MohamedAbouzid1/To-doApp/auth"
)

func newProtectedHandler(tokens *auth.Issuer) http.Handler {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserID(r)
		if !ok {
			http.Error(w, "no identity on context", http.StatusInternalServerError)
			return
		}
		fmt.Fprintf(w, "%d", id)
	})
	return RequireAuth(tokens)(inner)
}

func TestRequireAuth(t *testing.T) {
	tokens := auth.NewIssuer("test-secret", auth.TokenTTL)
	handler := newProtectedHandler(tokens)

	valid, err := tokens.Issue(7)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	expired, err := auth.NewIssuer("test-secret", -time.Minute).Issue(7)
	if err != nil {
		t.Fatalf("failed to issue expired token: %v", err)
	}

	forged, err := auth.NewIssuer("other-secret", auth.TokenTTL).Issue(7)
	if err != nil {
		t.Fatalf("failed to issue forged token: %v", err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "no bearer scheme", header: valid, wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Token " + valid, wantStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not.a.token", wantStatus: http.StatusUnauthorized},
		{name: "expired token", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
		{name: "forged token", header: "Bearer " + forged, wantStatus: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer " + valid, wantStatus: http.StatusOK, wantBody: "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/todos", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRejectionBodyIsCollapsed(t *testing.T) {
	tokens := auth.NewIssuer("test-secret", auth.TokenTTL)
	handler := newProtectedHandler(tokens)

	expired, err := auth.NewIssuer("test-secret", -time.Minute).Issue(7)
	if err != nil {
		t.Fatalf("failed to issue expired token: %v", err)
	}
	forged, err := auth.NewIssuer("other-secret", auth.TokenTTL).Issue(7)
	if err != nil {
		t.Fatalf("failed to issue forged token: %v", err)
	}

	// Expired, forged and malformed tokens must all produce the same body so
	// the failure reason is not observable by clients.
	var bodies []string
	for _, token := range []string{expired, forged, "not.a.token"} {
		req := httptest.NewRequest(http.MethodGet, "/todos", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		bodies = append(bodies, rec.Body.String())
	}
	for i := 1; i < len(bodies); i++ {
		if bodies[i] != bodies[0] {
			t.Errorf("rejection bodies differ: %q vs %q", bodies[0], bodies[i])
		}
	}
}

func TestUserIDWithoutAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	if _, ok := UserID(req); ok {
		t.Error("UserID() reported an identity on a bare request")
	}
}
