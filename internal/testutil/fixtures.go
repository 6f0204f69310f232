package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/dom/todo-service/internal/auth"
	"github.com/dom/todo-service/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	email    string
	password string
	active   bool
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		email:    fmt.Sprintf("user_%s@example.com", uuid.New().String()[:8]),
		password: "testpassword123",
		active:   true,
	}
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Inactive marks the user as deactivated
func (b *UserBuilder) Inactive() *UserBuilder {
	b.active = false
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := auth.HashPassword(b.password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        b.email,
		PasswordHash: hashedPassword,
		IsActive:     b.active,
		CreatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// BuildAndAuthenticate creates the user and returns it with a valid access token
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	user, _ := b.Build(t, ts.DB.DB)

	token, err := ts.Tokens.IssueAccess(user.ID, user.Email)
	if err != nil {
		t.Fatalf("failed to issue access token: %v", err)
	}

	return user, token
}

// TodoBuilder creates test todos with a builder pattern
type TodoBuilder struct {
	owner       *domain.User
	title       string
	description *string
	completed   bool
	createdAt   time.Time
}

// NewTodoBuilder creates a new TodoBuilder with default values
func NewTodoBuilder() *TodoBuilder {
	return &TodoBuilder{
		title:     fmt.Sprintf("todo_%s", uuid.New().String()[:8]),
		createdAt: time.Now(),
	}
}

// WithOwner sets the owning user
func (b *TodoBuilder) WithOwner(user *domain.User) *TodoBuilder {
	b.owner = user
	return b
}

// WithTitle sets the title
func (b *TodoBuilder) WithTitle(title string) *TodoBuilder {
	b.title = title
	return b
}

// WithDescription sets the description
func (b *TodoBuilder) WithDescription(description string) *TodoBuilder {
	b.description = &description
	return b
}

// Completed marks the todo as done
func (b *TodoBuilder) Completed() *TodoBuilder {
	b.completed = true
	return b
}

// WithCreatedAt sets the creation timestamp, useful for ordering tests
func (b *TodoBuilder) WithCreatedAt(createdAt time.Time) *TodoBuilder {
	b.createdAt = createdAt
	return b
}

// Build creates the todo in the database
func (b *TodoBuilder) Build(t *testing.T, db *gorm.DB) *domain.Todo {
	t.Helper()

	if b.owner == nil {
		user, _ := NewUserBuilder().Build(t, db)
		b.owner = user
	}

	todo := &domain.Todo{
		ID:          uuid.New(),
		UserID:      b.owner.ID,
		Title:       b.title,
		Description: b.description,
		Completed:   b.completed,
		CreatedAt:   b.createdAt,
		UpdatedAt:   b.createdAt,
	}

	if err := db.Create(todo).Error; err != nil {
		t.Fatalf("failed to create todo: %v", err)
	}

	return todo
}
