package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/service"
)

// UserHandler handles user registration and listing.
type UserHandler struct {
	todoService service.TodoService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(todoService service.TodoService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		todoService: todoService,
		validator:   validator.New(),
		logger:      logger.With("component", "user_handler"),
	}
}

// ListUsers handles GET /api/users. Responds 204 when no user is registered.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.todoService.ListUsers(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	if len(users) == 0 {
		shared.RespondNoContent(w, http.StatusNoContent)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, userToResponse(user))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// CreateUser handles POST /api/users.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateUserRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	birthDate, err := time.ParseInLocation(BirthDateLayout, req.BirthDate, time.UTC)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid birth_date", err)
		return
	}

	user, err := h.todoService.RegisterUser(r.Context(), service.RegisterUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		BirthDate: birthDate,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Debug("user created", "user_id", user.ID)
	shared.RespondWithJSON(w, r, http.StatusCreated, userToResponse(user))
}
