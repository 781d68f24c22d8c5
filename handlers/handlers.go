package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/MohamedAbouzid1/To-doApp/auth"
	"github.com/MohamedAbouzid1/To-doApp/middleware"
	"github.com/MohamedAbouzid1/To-doApp/models"
)

// Every new account starts with one todo.
const defaultTodoTask = "Hey, this is your first todo"

// Handlers holds the database connection and the token issuer shared by all
// request handlers.
type Handlers struct {
	DB     *sql.DB
	Tokens *auth.Issuer
}

func New(db *sql.DB, tokens *auth.Issuer) *Handlers {
	return &Handlers{DB: db, Tokens: tokens}
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"message": message})
}

// Register creates a new user with a hashed password, seeds their first
// todo in the same transaction, and returns a token for the new account.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req models.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	if req.Username == "" || req.Password == "" {
		respondWithError(w, http.StatusBadRequest, "username and password required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("hashing password: %v", err)
		respondWithError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	ctx := r.Context()
	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Printf("beginning registration transaction: %v", err)
		respondWithError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	err = tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE username=$1)", req.Username).Scan(&exists)
	if err != nil {
		log.Printf("checking for existing user: %v", err)
		respondWithError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}
	if exists {
		respondWithError(w, http.StatusConflict, "username already exists")
		return
	}

	var userID int64
	err = tx.QueryRowContext(ctx,
		"INSERT INTO users(username, password_hash) VALUES($1, $2) RETURNING id",
		req.Username, string(hash)).Scan(&userID)
	if err != nil {
		log.Printf("inserting user: %v", err)
		respondWithError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO todos(user_id, task, completed) VALUES($1, $2, $3)",
		userID, defaultTodoTask, false)
	if err != nil {
		log.Printf("inserting default todo: %v", err)
		respondWithError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	if err := tx.Commit(); err != nil {
		log.Printf("committing registration: %v", err)
		respondWithError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	token, err := h.Tokens.Issue(userID)
	if err != nil {
		log.Printf("signing token: %v", err)
		respondWithError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	respondWithJSON(w, http.StatusCreated, models.TokenResponse{Token: token})
}

// Login verifies a username/password pair and returns a fresh token.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req models.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	var user models.User
	err := h.DB.QueryRowContext(r.Context(),
		"SELECT id, username, password_hash FROM users WHERE username=$1",
		req.Username).Scan(&user.ID, &user.Username, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		respondWithError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		log.Printf("looking up user for login: %v", err)
		respondWithError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondWithError(w, http.StatusUnauthorized, "invalid password")
		return
	}

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		log.Printf("signing token: %v", err)
		respondWithError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	respondWithJSON(w, http.StatusOK, models.TokenResponse{Token: token})
}

// ListTodos returns all todos owned by the authenticated user.
func (h *Handlers) ListTodos(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	rows, err := h.DB.QueryContext(r.Context(),
		"SELECT id, user_id, task, completed FROM todos WHERE user_id=$1", userID)
	if err != nil {
		log.Printf("listing todos: %v", err)
		respondWithError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}
	defer rows.Close()

	todos := []models.Todo{}
	for rows.Next() {
		var t models.Todo
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Task, &t.Completed); err != nil {
			log.Printf("scanning todo row: %v", err)
			respondWithError(w, http.StatusServiceUnavailable, "service unavailable")
			return
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		log.Printf("iterating todo rows: %v", err)
		respondWithError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	respondWithJSON(w, http.StatusOK, todos)
}

// CreateTodo inserts a new todo owned by the authenticated user.
func (h *Handlers) CreateTodo(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req models.CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	if req.Task == "" {
		respondWithError(w, http.StatusBadRequest, "task required")
		return
	}

	todo := models.Todo{OwnerID: userID, Task: req.Task, Completed: false}
	err := h.DB.QueryRowContext(r.Context(),
		"INSERT INTO todos(user_id, task, completed) VALUES($1, $2, $3) RETURNING id",
		userID, req.Task, false).Scan(&todo.ID)
	if err != nil {
		log.Printf("inserting todo: %v", err)
		respondWithError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	respondWithJSON(w, http.StatusCreated, todo)
}

// UpdateTodo sets the completion flag on a todo. The statement is always
// constrained to the authenticated owner; a wrong owner looks the same as a
// missing id.
func (h *Handlers) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid todo id")
		return
	}

	var req models.UpdateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	var todo models.Todo
	err = h.DB.QueryRowContext(r.Context(),
		"UPDATE todos SET completed=$1 WHERE id=$2 AND user_id=$3 RETURNING id, user_id, task, completed",
		req.Completed, id, userID).Scan(&todo.ID, &todo.OwnerID, &todo.Task, &todo.Completed)
	if errors.Is(err, sql.ErrNoRows) {
		respondWithError(w, http.StatusNotFound, "todo not found")
		return
	}
	if err != nil {
		log.Printf("updating todo: %v", err)
		respondWithError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	respondWithJSON(w, http.StatusOK, todo)
}

// DeleteTodo removes a todo owned by the authenticated user.
func (h *Handlers) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid todo id")
		return
	}

	var todo models.Todo
	err = h.DB.QueryRowContext(r.Context(),
		"DELETE FROM todos WHERE id=$1 AND user_id=$2 RETURNING id, user_id, task, completed",
		id, userID).Scan(&todo.ID, &todo.OwnerID, &todo.Task, &todo.Completed)
	if errors.Is(err, sql.ErrNoRows) {
		respondWithError(w, http.StatusNotFound, "todo not found")
		return
	}
	if err != nil {
		log.Printf("deleting todo: %v", err)
		respondWithError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	respondWithJSON(w, http.StatusOK, todo)
}
