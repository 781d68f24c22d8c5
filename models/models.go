package models

import "github.com/golang-jwt/jwt/v5"

// User represents a registered account.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // Omit from JSON output for security
}

// Todo represents a single todo item owned by a user.
type Todo struct {
	ID        int64  `json:"id"`
	OwnerID   int64  `json:"ownerId"`
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
}

// CredentialsRequest is the body for both registration and login.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse carries a freshly issued token back to the client.
type TokenResponse struct {
	Token string `json:"token"`
}

// CreateTodoRequest is the body for creating a todo.
type CreateTodoRequest struct {
	Task string `json:"task"`
}

// UpdateTodoRequest is the body for updating a todo's completion flag.
type UpdateTodoRequest struct {
	Completed bool `json:"completed"`
}

// Claims defines the information stored in the JWT.
type Claims struct {
	UserID int64 `json:"userId"`
	jwt.RegisteredClaims
}
