package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dom/todo-service/internal/domain"
	"github.com/dom/todo-service/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrTodoNotFound = errors.New("todo not found")

const (
	maxTitleLength       = 255
	maxDescriptionLength = 1000
	maxPageSize          = 100
)

// TodoService owns validation and ownership scoping for todos. Every
// operation takes the caller's authenticated user ID and only ever touches
// rows belonging to it; a todo owned by someone else is indistinguishable
// from one that does not exist.
type TodoService struct {
	todoRepo repository.TodoRepository
}

func NewTodoService(todoRepo repository.TodoRepository) *TodoService {
	return &TodoService{todoRepo: todoRepo}
}

type CreateTodoInput struct {
	Title       string
	Description *string
}

// UpdateTodoInput carries a partial update. Nil pointer fields are left
// unchanged; DescriptionSet distinguishes "description": null (clear) from
// the field being absent.
type UpdateTodoInput struct {
	Title          *string
	Description    *string
	DescriptionSet bool
	Completed      *bool
}

type ListTodosInput struct {
	Completed *bool
	Limit     int
	Offset    int
}

func (s *TodoService) Create(ctx context.Context, ownerID uuid.UUID, input CreateTodoInput) (*domain.Todo, error) {
	title, err := validateTitle(input.Title)
	if err != nil {
		return nil, err
	}
	if err := validateDescription(input.Description); err != nil {
		return nil, err
	}

	now := time.Now()
	todo := &domain.Todo{
		ID:          uuid.New(),
		UserID:      ownerID,
		Title:       title,
		Description: input.Description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, err
	}

	return todo, nil
}

func (s *TodoService) List(ctx context.Context, ownerID uuid.UUID, input ListTodosInput) ([]*domain.Todo, int64, error) {
	filter := repository.TodoFilter{
		Completed: input.Completed,
		Limit:     clamp(input.Limit, 0, maxPageSize),
		Offset:    max(input.Offset, 0),
	}
	return s.todoRepo.ListByOwner(ctx, ownerID, filter)
}

func (s *TodoService) Get(ctx context.Context, ownerID, todoID uuid.UUID) (*domain.Todo, error) {
	todo, err := s.todoRepo.GetByOwner(ctx, ownerID, todoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return todo, nil
}

func (s *TodoService) Update(ctx context.Context, ownerID, todoID uuid.UUID, input UpdateTodoInput) (*domain.Todo, error) {
	todo, err := s.todoRepo.UpdateByOwner(ctx, ownerID, todoID, func(todo *domain.Todo) error {
		if input.Title != nil {
			title, err := validateTitle(*input.Title)
			if err != nil {
				return err
			}
			todo.Title = title
		}
		if input.DescriptionSet {
			if err := validateDescription(input.Description); err != nil {
				return err
			}
			todo.Description = input.Description
		}
		if input.Completed != nil {
			todo.Completed = *input.Completed
		}
		todo.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return todo, nil
}

func (s *TodoService) ToggleComplete(ctx context.Context, ownerID, todoID uuid.UUID) (*domain.Todo, error) {
	todo, err := s.todoRepo.ToggleByOwner(ctx, ownerID, todoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return todo, nil
}

func (s *TodoService) Delete(ctx context.Context, ownerID, todoID uuid.UUID) error {
	err := s.todoRepo.DeleteByOwner(ctx, ownerID, todoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTodoNotFound
		}
		return err
	}
	return nil
}

// validateTitle trims surrounding whitespace and control characters and
// enforces the 1..255 character length rule on what remains.
func validateTitle(title string) (string, error) {
	trimmed := strings.TrimFunc(title, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	})
	if trimmed == "" {
		return "", domain.NewValidationError("title", "must not be blank")
	}
	if utf8.RuneCountInString(trimmed) > maxTitleLength {
		return "", domain.NewValidationError("title", fmt.Sprintf("must be at most %d characters", maxTitleLength))
	}
	return trimmed, nil
}

func validateDescription(description *string) error {
	if description == nil {
		return nil
	}
	if utf8.RuneCountInString(*description) > maxDescriptionLength {
		return domain.NewValidationError("description", fmt.Sprintf("must be at most %d characters", maxDescriptionLength))
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
