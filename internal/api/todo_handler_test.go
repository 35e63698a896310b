package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func itemsPath(userID uuid.UUID) string {
	return fmt.Sprintf("/api/users/%s/todos/items", userID)
}

func TestListItems(t *testing.T) {
	t.Run("items in order", func(t *testing.T) {
		s := newTestServer(t)
		userID := uuid.New()
		items := []*domain.Item{testItem("Groceries"), testItem("Laundry")}
		s.svc.On("ListItems", mock.Anything, userID).Return(items, nil)

		rec := s.do(t, http.MethodGet, itemsPath(userID), nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var got []ItemResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		require.Len(t, got, 2)
		assert.Equal(t, "Groceries", got[0].Name)
		assert.Equal(t, "Laundry", got[1].Name)
		assert.True(t, fixedNow.Equal(got[0].CreationDate))
	})

	t.Run("empty list is an empty array", func(t *testing.T) {
		s := newTestServer(t)
		userID := uuid.New()
		s.svc.On("ListItems", mock.Anything, userID).Return([]*domain.Item{}, nil)

		rec := s.do(t, http.MethodGet, itemsPath(userID), nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("unknown user", func(t *testing.T) {
		s := newTestServer(t)
		userID := uuid.New()
		s.svc.On("ListItems", mock.Anything, userID).
			Return(nil, fmt.Errorf("failed to retrieve user: %w", store.ErrUserNotFound))

		rec := s.do(t, http.MethodGet, itemsPath(userID), nil)

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "User not found", decodeError(t, rec).Error)
	})

	t.Run("malformed user id", func(t *testing.T) {
		s := newTestServer(t)

		rec := s.do(t, http.MethodGet, "/api/users/not-a-uuid/todos/items", nil)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid user ID", decodeError(t, rec).Error)
	})
}

func TestCreateItem(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		s := newTestServer(t)
		userID := uuid.New()
		item := testItem("Groceries")
		s.svc.On("AddItem", mock.Anything, userID, "Groceries", "milk").Return(item, nil)

		rec := s.do(t, http.MethodPost, itemsPath(userID), CreateItemRequest{Name: "Groceries", Content: "milk"})

		require.Equal(t, http.StatusCreated, rec.Code)
		var got ItemResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, item.ID, got.ID)
	})

	errorTests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
		wantReason string
	}{
		{
			name:       "invalid item",
			err:        fmt.Errorf("failed to add item: %w", &domain.ValidationError{Kind: domain.ErrItemNotValid, Reason: domain.ReasonItemName}),
			wantStatus: http.StatusBadRequest,
			wantError:  "Item not valid",
			wantReason: domain.ReasonItemName,
		},
		{
			name:       "duplicate name",
			err:        &domain.ValidationError{Kind: domain.ErrItemNotValid, Reason: domain.ReasonDuplicateItem},
			wantStatus: http.StatusBadRequest,
			wantError:  "Item not valid",
			wantReason: domain.ReasonDuplicateItem,
		},
		{
			name:       "owner not valid",
			err:        &domain.ValidationError{Kind: domain.ErrUserNotValid, Reason: domain.ReasonBirthDate},
			wantStatus: http.StatusBadRequest,
			wantError:  "User not valid",
			wantReason: domain.ReasonBirthDate,
		},
		{
			name:       "list full",
			err:        &domain.ValidationError{Kind: domain.ErrTodolistMaximumCapacity, Reason: domain.ReasonTodolistAtCapacity},
			wantStatus: http.StatusConflict,
			wantError:  "Todo list maximum capacity reached",
			wantReason: domain.ReasonTodolistAtCapacity,
		},
		{
			name:       "unknown user",
			err:        fmt.Errorf("failed to add item: %w", store.ErrUserNotFound),
			wantStatus: http.StatusNotFound,
			wantError:  "User not found",
		},
		{
			name:       "persistence failure",
			err:        fmt.Errorf("failed to add item: %w", domain.ErrPersistenceFailed),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to save todo list",
		},
	}
	for _, tc := range errorTests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t)
			userID := uuid.New()
			s.svc.On("AddItem", mock.Anything, userID, "Groceries", "").Return(nil, tc.err)

			rec := s.do(t, http.MethodPost, itemsPath(userID), CreateItemRequest{Name: "Groceries"})

			require.Equal(t, tc.wantStatus, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tc.wantError, body.Error)
			assert.Equal(t, tc.wantReason, body.Reason)
		})
	}

	t.Run("missing name reaches the item rules", func(t *testing.T) {
		s := newTestServer(t)
		userID := uuid.New()
		s.svc.On("AddItem", mock.Anything, userID, "", "milk").
			Return(nil, &domain.ValidationError{Kind: domain.ErrItemNotValid, Reason: domain.ReasonItemName}).Once()

		rec := s.do(t, http.MethodPost, itemsPath(userID), `{"content":"milk"}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "Item not valid", body.Error)
		assert.Equal(t, domain.ReasonItemName, body.Reason)
		s.svc.AssertExpectations(t)
	})

	t.Run("malformed json", func(t *testing.T) {
		s := newTestServer(t)

		rec := s.do(t, http.MethodPost, itemsPath(uuid.New()), `{"name":`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request format", decodeError(t, rec).Error)
	})
}

func TestMyItems(t *testing.T) {
	t.Run("list for authenticated user", func(t *testing.T) {
		s := newTestServer(t)
		userID := uuid.New()
		s.svc.On("ListItems", mock.Anything, userID).Return([]*domain.Item{testItem("Groceries")}, nil)

		rec := s.do(t, http.MethodGet, "/api/me/todos/items", nil, s.bearer(t, userID)...)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("create for authenticated user", func(t *testing.T) {
		s := newTestServer(t)
		userID := uuid.New()
		s.svc.On("AddItem", mock.Anything, userID, "Groceries", "milk").Return(testItem("Groceries"), nil)

		rec := s.do(t, http.MethodPost, "/api/me/todos/items",
			CreateItemRequest{Name: "Groceries", Content: "milk"}, s.bearer(t, userID)...)

		require.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("requires token", func(t *testing.T) {
		s := newTestServer(t)

		rec := s.do(t, http.MethodGet, "/api/me/todos/items", nil)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects bad token", func(t *testing.T) {
		s := newTestServer(t)

		rec := s.do(t, http.MethodPost, "/api/me/todos/items", CreateItemRequest{Name: "Groceries"},
			"Authorization", "Bearer not.a.token")

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid token", decodeError(t, rec).Error)
	})
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))
}
