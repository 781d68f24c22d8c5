package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/MohamedAbouzid1/To-doApp/auth"
)

// contextKey is a custom type to avoid context key collisions.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth returns middleware that authenticates the Bearer token on each
// request and attaches the resolved user id to the request context. All
// verification failures produce the same 401 body; the specific reason is
// only logged.
func RequireAuth(tokens *auth.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				reject(w, "missing authorization header")
				return
			}

			parts := strings.Split(header, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				reject(w, "invalid authorization header")
				return
			}

			userID, err := tokens.Verify(parts[1])
			if err != nil {
				log.Printf("token rejected: %v", err)
				reject(w, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID retrieves the authenticated user id placed on the context by
// RequireAuth.
func UserID(r *http.Request) (int64, bool) {
	id, ok := r.Context().Value(userIDKey).(int64)
	return id, ok
}

func reject(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
