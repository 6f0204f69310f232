package api

import (
	"net/http"

	"github.com/dom/todo-service/internal/api/handlers"
	"github.com/dom/todo-service/internal/api/middleware"
	"github.com/dom/todo-service/internal/auth"
	"github.com/dom/todo-service/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, tokens *auth.TokenService) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handlers.NewAuthHandler(services.Auth)
	todoHandler := handlers.NewTodoHandler(services.Todo)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(tokens))
			r.Get("/me", authHandler.Me)
		})
	})

	r.Route("/todos", func(r chi.Router) {
		r.Use(middleware.Auth(tokens))

		r.Post("/", todoHandler.Create)
		r.Get("/", todoHandler.List)
		r.Get("/{id}", todoHandler.Get)
		r.Put("/{id}", todoHandler.Update)
		r.Patch("/{id}/complete", todoHandler.ToggleComplete)
		r.Delete("/{id}", todoHandler.Delete)
	})

	return r
}
