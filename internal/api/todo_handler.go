package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/service"
)

// UserIDParam is the chi URL parameter holding the list owner's ID.
const UserIDParam = "userID"

// TodoHandler handles to-do list requests, both for an explicit user
// (/users/{userID}/todos/items) and for the authenticated user (/me/todos/items).
type TodoHandler struct {
	todoService service.TodoService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(todoService service.TodoService, logger *slog.Logger) *TodoHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TodoHandler{
		todoService: todoService,
		validator:   validator.New(),
		logger:      logger.With("component", "todo_handler"),
	}
}

// ListItems handles GET /api/users/{userID}/todos/items.
func (h *TodoHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r)
	if !ok {
		return
	}
	h.listItems(w, r, userID)
}

// CreateItem handles POST /api/users/{userID}/todos/items.
func (h *TodoHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r)
	if !ok {
		return
	}
	h.createItem(w, r, userID)
}

// ListMyItems handles GET /api/me/todos/items.
func (h *TodoHandler) ListMyItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := contextUserID(w, r)
	if !ok {
		return
	}
	h.listItems(w, r, userID)
}

// CreateMyItem handles POST /api/me/todos/items.
func (h *TodoHandler) CreateMyItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := contextUserID(w, r)
	if !ok {
		return
	}
	h.createItem(w, r, userID)
}

func (h *TodoHandler) listItems(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	items, err := h.todoService.ListItems(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, itemsToResponse(items))
}

func (h *TodoHandler) createItem(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateItemRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	item, err := h.todoService.AddItem(r.Context(), userID, req.Name, req.Content)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Debug("item created", "user_id", userID, "item_id", item.ID)
	shared.RespondWithJSON(w, r, http.StatusCreated, itemToResponse(item))
}

// pathUserID parses the user ID URL parameter, writing a 400 response when
// it is not a UUID.
func pathUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, UserIDParam)
	userID, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid user ID", err)
		return uuid.Nil, false
	}
	return userID, true
}

// contextUserID returns the authenticated user, writing a 401 response when
// the request carries none.
func contextUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := shared.GetUserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return uuid.Nil, false
	}
	return userID, true
}
