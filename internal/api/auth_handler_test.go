package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/todo-api/internal/service"
	"github.com/phrazzld/todo-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	t.Run("issues a valid token", func(t *testing.T) {
		s := newTestServer(t)
		user := testUser()
		s.svc.On("Authenticate", mock.Anything, user.Email, "Password123").Return(user, nil)

		rec := s.do(t, http.MethodPost, "/api/auth/login", LoginRequest{Email: user.Email, Password: "Password123"})

		require.Equal(t, http.StatusOK, rec.Code)
		var got AuthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, user.ID, got.UserID)
		assert.NotEmpty(t, got.ExpiresAt)

		claims, err := s.jwtService.ValidateToken(context.Background(), got.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		s := newTestServer(t)
		s.svc.On("Authenticate", mock.Anything, "ada@example.com", "wrong").
			Return(nil, service.ErrInvalidCredentials)

		rec := s.do(t, http.MethodPost, "/api/auth/login", LoginRequest{Email: "ada@example.com", Password: "wrong"})

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid credentials", decodeError(t, rec).Error)
	})

	t.Run("lookup failure", func(t *testing.T) {
		s := newTestServer(t)
		s.svc.On("Authenticate", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("failed to authenticate: timeout"))

		rec := s.do(t, http.MethodPost, "/api/auth/login", LoginRequest{Email: "ada@example.com", Password: "x"})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("missing password", func(t *testing.T) {
		s := newTestServer(t)

		rec := s.do(t, http.MethodPost, "/api/auth/login", `{"email":"ada@example.com"}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid password: required field", decodeError(t, rec).Error)
	})
}

func TestLogin_ExpiryAndTokenFailure(t *testing.T) {
	user := testUser()

	t.Run("expiry follows token lifetime", func(t *testing.T) {
		svc := &MockTodoService{}
		svc.On("Authenticate", mock.Anything, user.Email, "Password123").Return(user, nil)

		h := NewAuthHandler(svc, auth.MustCreateTestJWTService(), testAuthConfig, nil).
			WithTimeFunc(func() time.Time { return fixedNow })

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"email":"ada@example.com","password":"Password123"}`))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var got AuthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "2026-10-19T13:00:00Z", got.ExpiresAt)
		svc.AssertExpectations(t)
	})

	t.Run("token generation failure", func(t *testing.T) {
		svc := &MockTodoService{}
		svc.On("Authenticate", mock.Anything, user.Email, "Password123").Return(user, nil)
		jwtStub := &MockJWTService{}
		jwtStub.On("GenerateToken", mock.Anything, user.ID).Return("", errors.New("signing failed"))

		h := NewAuthHandler(svc, jwtStub, testAuthConfig, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"email":"ada@example.com","password":"Password123"}`))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Failed to generate authentication token", decodeError(t, rec).Error)
	})
}
