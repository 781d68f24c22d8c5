package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MohamedAbouzid1/To-doApp/auth"
	"github.com/MohamedAbouzid1/To-doApp/config"
	"github.com/MohamedAbouzid1/To-doApp/database"
	"github.com/MohamedAbouzid1/To-doApp/handlers"
	"github.com/MohamedAbouzid1/To-doApp/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	db, err := database.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connecting to database: %v", err)
	}
	defer db.Close()

	tokens := auth.NewIssuer(cfg.JWTSecret, auth.TokenTTL)
	h := handlers.New(db, tokens)

	router := mux.NewRouter()
	router.HandleFunc("/auth/register", h.Register).Methods("POST")
	router.HandleFunc("/auth/login", h.Login).Methods("POST")

	todos := router.PathPrefix("/todos").Subrouter()
	todos.Use(middleware.RequireAuth(tokens))
	todos.HandleFunc("", h.ListTodos).Methods("GET")
	todos.HandleFunc("", h.CreateTodo).Methods("POST")
	todos.HandleFunc("/{id}", h.UpdateTodo).Methods("PUT")
	todos.HandleFunc("/{id}", h.DeleteTodo).Methods("DELETE")

	log.Printf("server listening on %s", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, router))
}
