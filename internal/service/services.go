package service

import (
	"github.com/dom/todo-service/internal/auth"
	"github.com/dom/todo-service/internal/repository"
)

type Services struct {
	Auth *AuthService
	Todo *TodoService
}

func NewServices(repos *repository.Repositories, tokens *auth.TokenService) *Services {
	return &Services{
		Auth: NewAuthService(repos.User, tokens),
		Todo: NewTodoService(repos.Todo),
	}
}
