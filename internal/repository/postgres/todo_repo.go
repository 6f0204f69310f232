package postgres

import (
	"context"
	"time"

	"github.com/dom/todo-service/internal/domain"
	"github.com/dom/todo-service/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type todoRepository struct {
	db *gorm.DB
}

func NewTodoRepository(db *gorm.DB) *todoRepository {
	return &todoRepository{db: db}
}

func (r *todoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	return r.db.WithContext(ctx).Create(todo).Error
}

func (r *todoRepository) GetByOwner(ctx context.Context, ownerID, id uuid.UUID) (*domain.Todo, error) {
	var todo domain.Todo
	err := r.db.WithContext(ctx).
		First(&todo, "id = ? AND user_id = ?", id, ownerID).Error
	if err != nil {
		return nil, err
	}
	return &todo, nil
}

// ListByOwner returns one page of the owner's todos plus the total count
// matching the filter. Count and page run in one transaction so the total
// is consistent with the window. Ordering is created_at then id, so pages
// are stable when the underlying set is unchanged.
func (r *todoRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, filter repository.TodoFilter) ([]*domain.Todo, int64, error) {
	var todos []*domain.Todo
	var total int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&domain.Todo{}).Where("user_id = ?", ownerID)
		if filter.Completed != nil {
			query = query.Where("completed = ?", *filter.Completed)
		}
		// Session makes the chain reusable for both the count and the page.
		query = query.Session(&gorm.Session{})

		if err := query.Count(&total).Error; err != nil {
			return err
		}

		return query.
			Order("created_at ASC, id ASC").
			Limit(filter.Limit).
			Offset(filter.Offset).
			Find(&todos).Error
	})
	if err != nil {
		return nil, 0, err
	}

	return todos, total, nil
}

// UpdateByOwner fetches the owner's todo under a row lock, lets apply
// mutate it, and saves the result, all in one transaction. An error from
// apply aborts the transaction with the row untouched.
func (r *todoRepository) UpdateByOwner(ctx context.Context, ownerID, id uuid.UUID, apply func(*domain.Todo) error) (*domain.Todo, error) {
	var todo domain.Todo
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&todo, "id = ? AND user_id = ?", id, ownerID).Error; err != nil {
			return err
		}
		if err := apply(&todo); err != nil {
			return err
		}
		return tx.Save(&todo).Error
	})
	if err != nil {
		return nil, err
	}
	return &todo, nil
}

// ToggleByOwner flips completed in a single UPDATE so concurrent toggles
// of the same todo never lose a flip. RETURNING yields the updated row.
func (r *todoRepository) ToggleByOwner(ctx context.Context, ownerID, id uuid.UUID) (*domain.Todo, error) {
	var todo domain.Todo
	result := r.db.WithContext(ctx).
		Model(&todo).
		Clauses(clause.Returning{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Updates(map[string]interface{}{
			"completed":  gorm.Expr("NOT completed"),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &todo, nil
}

func (r *todoRepository) DeleteByOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&domain.Todo{}, "id = ? AND user_id = ?", id, ownerID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
