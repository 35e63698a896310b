package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
)

// BirthDateLayout is the wire format of birth dates.
const BirthDateLayout = "2006-01-02"

// CreateUserRequest defines the payload for the user registration endpoint.
// Only presence and date format are checked here; the business rules are
// applied by the domain.
type CreateUserRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"  validate:"required"`
	Email     string `json:"email"      validate:"required"`
	Password  string `json:"password"   validate:"required"`
	BirthDate string `json:"birth_date" validate:"required,datetime=2006-01-02"`
}

// CreateItemRequest defines the payload for adding an item to a to-do list.
type CreateItemRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse defines the successful response for the login endpoint.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// ExpiresAt is the RFC 3339 timestamp when the access token expires
	ExpiresAt string `json:"expires_at"`
}

// ItemResponse is the representation of a to-do list item.
type ItemResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Content      string    `json:"content"`
	CreationDate time.Time `json:"creation_date"`
}

// UserResponse is the public representation of a user. Password material
// is never included.
type UserResponse struct {
	ID        uuid.UUID      `json:"id"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Email     string         `json:"email"`
	BirthDate string         `json:"birth_date"`
	TodoList  []ItemResponse `json:"todo_list"`
	CreatedAt time.Time      `json:"created_at"`
}

func itemToResponse(item *domain.Item) ItemResponse {
	return ItemResponse{
		ID:           item.ID,
		Name:         item.Name,
		Content:      item.Content,
		CreationDate: item.CreationDate,
	}
}

func itemsToResponse(items []*domain.Item) []ItemResponse {
	resp := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, itemToResponse(item))
	}
	return resp
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		BirthDate: user.BirthDate.Format(BirthDateLayout),
		TodoList:  itemsToResponse(user.TodoList),
		CreatedAt: user.CreatedAt,
	}
}
