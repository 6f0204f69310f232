package repository

import (
	"context"

	"github.com/dom/todo-service/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// TodoFilter narrows and pages an owner-scoped listing. Limit and Offset
// are assumed pre-clamped by the service layer.
type TodoFilter struct {
	Completed *bool
	Limit     int
	Offset    int
}

// TodoRepository scopes every lookup and mutation to an owner. A row owned
// by someone else behaves exactly like an absent row. Read-modify-write
// mutations run atomically: UpdateByOwner locks the row for the duration
// of apply, ToggleByOwner flips completed in a single statement.
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) error
	GetByOwner(ctx context.Context, ownerID, id uuid.UUID) (*domain.Todo, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, filter TodoFilter) ([]*domain.Todo, int64, error)
	UpdateByOwner(ctx context.Context, ownerID, id uuid.UUID, apply func(*domain.Todo) error) (*domain.Todo, error)
	ToggleByOwner(ctx context.Context, ownerID, id uuid.UUID) (*domain.Todo, error)
	DeleteByOwner(ctx context.Context, ownerID, id uuid.UUID) error
}

type Repositories struct {
	User UserRepository
	Todo TodoRepository
}
