package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/dom/todo-service/internal/api/middleware"
	"github.com/dom/todo-service/internal/domain"
	"github.com/dom/todo-service/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type TodoHandler struct {
	todoService *service.TodoService
}

func NewTodoHandler(todoService *service.TodoService) *TodoHandler {
	return &TodoHandler{todoService: todoService}
}

type CreateTodoRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// UpdateTodoRequest is a partial update. Description is raw so an explicit
// null (which clears the field) can be told apart from the field being
// absent.
type UpdateTodoRequest struct {
	Title       *string         `json:"title"`
	Description json.RawMessage `json:"description"`
	Completed   *bool           `json:"completed"`
}

type TodoResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type TodoListResponse struct {
	Todos  []TodoResponse `json:"todos"`
	Total  int64          `json:"total"`
	Offset int            `json:"offset"`
	Limit  int            `json:"limit"`
}

func newTodoResponse(todo *domain.Todo) TodoResponse {
	return TodoResponse{
		ID:          todo.ID.String(),
		UserID:      todo.UserID.String(),
		Title:       todo.Title,
		Description: todo.Description,
		Completed:   todo.Completed,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
}

func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	todo, err := h.todoService.Create(r.Context(), userID, service.CreateTodoInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.writeServiceError(w, "todo.Create", err)
		return
	}

	writeJSON(w, http.StatusCreated, newTodoResponse(todo))
}

func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	input := service.ListTodosInput{Limit: 20, Offset: 0}
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		input.Limit = parsed
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		parsed, err := strconv.Atoi(o)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid offset parameter")
			return
		}
		input.Offset = parsed
	}
	if c := r.URL.Query().Get("completed"); c != "" {
		parsed, err := strconv.ParseBool(c)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid completed parameter")
			return
		}
		input.Completed = &parsed
	}

	todos, total, err := h.todoService.List(r.Context(), userID, input)
	if err != nil {
		h.writeServiceError(w, "todo.List", err)
		return
	}

	items := make([]TodoResponse, 0, len(todos))
	for _, todo := range todos {
		items = append(items, newTodoResponse(todo))
	}

	writeJSON(w, http.StatusOK, TodoListResponse{
		Todos:  items,
		Total:  total,
		Offset: max(input.Offset, 0),
		Limit:  min(max(input.Limit, 0), 100),
	})
}

func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	todoID, ok := parseTodoID(w, r)
	if !ok {
		return
	}

	todo, err := h.todoService.Get(r.Context(), userID, todoID)
	if err != nil {
		h.writeServiceError(w, "todo.Get", err)
		return
	}

	writeJSON(w, http.StatusOK, newTodoResponse(todo))
}

func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	todoID, ok := parseTodoID(w, r)
	if !ok {
		return
	}

	var req UpdateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	input := service.UpdateTodoInput{
		Title:     req.Title,
		Completed: req.Completed,
	}
	if len(req.Description) > 0 {
		input.DescriptionSet = true
		if string(req.Description) != "null" {
			var description string
			if err := json.Unmarshal(req.Description, &description); err != nil {
				writeError(w, http.StatusBadRequest, "Invalid request body")
				return
			}
			input.Description = &description
		}
	}

	todo, err := h.todoService.Update(r.Context(), userID, todoID, input)
	if err != nil {
		h.writeServiceError(w, "todo.Update", err)
		return
	}

	writeJSON(w, http.StatusOK, newTodoResponse(todo))
}

func (h *TodoHandler) ToggleComplete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	todoID, ok := parseTodoID(w, r)
	if !ok {
		return
	}

	todo, err := h.todoService.ToggleComplete(r.Context(), userID, todoID)
	if err != nil {
		h.writeServiceError(w, "todo.ToggleComplete", err)
		return
	}

	writeJSON(w, http.StatusOK, newTodoResponse(todo))
}

func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	todoID, ok := parseTodoID(w, r)
	if !ok {
		return
	}

	if err := h.todoService.Delete(r.Context(), userID, todoID); err != nil {
		h.writeServiceError(w, "todo.Delete", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseTodoID validates the path id before any lookup happens; a malformed
// id is a 400, never a 404.
func parseTodoID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	todoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid todo ID format")
		return uuid.Nil, false
	}
	return todoID, true
}

func (h *TodoHandler) writeServiceError(w http.ResponseWriter, op string, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusUnprocessableEntity, validationErr.Error())
	case errors.Is(err, service.ErrTodoNotFound):
		writeError(w, http.StatusNotFound, "Todo not found")
	default:
		log.Printf("ERROR [%s] %v", op, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
