package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"blogCPT/cmd/app"
	"blogCPT/internal/config"
	"blogCPT/internal/database"
	handlers "blogCPT/internal/handler"
	"blogCPT/internal/middleware"
)

func main() {
	// setting up config
	cfg := config.LoadConfig()

	if cfg.JWTSecretKey == "" {
		log.Fatal("JWT_SECRET_KEY не установлен в .env файле")
	}

	db, repo, services := app.App(cfg)
	defer database.MethodsDB.CloseDB(db)

	handler := handlers.NewHandlers(repo, services, cfg)

	auth := middleware.RequireAuth(cfg)
	optionalAuth := middleware.OptionalAuth(cfg)

	router := mux.NewRouter()

	// setting up routes
	router.HandleFunc("/", handlers.HomeHandler).Methods(http.MethodGet)
	router.HandleFunc("/health", handlers.HealthHandler).Methods(http.MethodGet)

	router.HandleFunc("/api/auth/register", handler.Register).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", handler.Login).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/refresh-token", handler.RefreshToken).Methods(http.MethodPost)

	router.Handle("/api/me", auth(http.HandlerFunc(handler.GetCurrentUser))).Methods(http.MethodGet)
	router.Handle("/api/stats", auth(http.HandlerFunc(handler.GetStats))).Methods(http.MethodGet)

	router.Handle("/api/blogs", auth(http.HandlerFunc(handler.CreateBlog))).Methods(http.MethodPost)
	router.Handle("/api/blogs", optionalAuth(http.HandlerFunc(handler.ListBlogs))).Methods(http.MethodGet)
	router.Handle("/api/blogs/{idOrSlug}", optionalAuth(http.HandlerFunc(handler.GetBlog))).Methods(http.MethodGet)
	router.Handle("/api/blogs/{id}", auth(http.HandlerFunc(handler.UpdateBlog))).Methods(http.MethodPut)
	router.Handle("/api/blogs/{id}", auth(http.HandlerFunc(handler.DeleteBlog))).Methods(http.MethodDelete)
	router.Handle("/api/blogs/{id}/image", auth(http.HandlerFunc(handler.UploadFeaturedImage))).Methods(http.MethodPost)

	handlerChain := middleware.Chain(
		router,
		middleware.LoggingMiddleware,
		middleware.CORSMiddleware,
	)

	// Starting the server
	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	fmt.Printf("Сервер запущен на %s\n", addr)
	fmt.Printf("База данных: %s\n", cfg.DB.DbNAME)

	if err := http.ListenAndServe(addr, handlerChain); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
