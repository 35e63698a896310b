package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/service"
	"github.com/phrazzld/todo-api/internal/service/auth"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTodoService mocks the service.TodoService interface.
type MockTodoService struct {
	mock.Mock
}

var _ service.TodoService = (*MockTodoService)(nil)

func (m *MockTodoService) RegisterUser(ctx context.Context, input service.RegisterUserInput) (*domain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockTodoService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockTodoService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockTodoService) ListItems(ctx context.Context, userID uuid.UUID) ([]*domain.Item, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Item), args.Error(1)
}

func (m *MockTodoService) AddItem(ctx context.Context, userID uuid.UUID, name, content string) (*domain.Item, error) {
	args := m.Called(ctx, userID, name, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockTodoService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// testServer wires the full router around a mocked service.
type testServer struct {
	svc        *MockTodoService
	jwtService auth.JWTService
	handler    http.Handler
	logs       *logger.TestLogBuffer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	svc := &MockTodoService{}
	t.Cleanup(func() { svc.AssertExpectations(t) })

	authCfg := auth.DefaultJWTConfig()
	jwtService := auth.MustCreateTestJWTService()
	l, buf := logger.NewTestLogger()

	return &testServer{
		svc:        svc,
		jwtService: jwtService,
		handler: NewRouter(RouterDeps{
			TodoService: svc,
			JWTService:  jwtService,
			AuthConfig:  &authCfg,
			Logger:      l,
		}),
		logs: buf,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) bearer(t *testing.T, userID uuid.UUID) []string {
	t.Helper()
	token, err := s.jwtService.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	return []string{"Authorization", "Bearer " + token}
}

type errorBody struct {
	Error   string `json:"error"`
	Reason  string `json:"reason"`
	TraceID string `json:"trace_id"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func testUser() *domain.User {
	return &domain.User{
		ID:             uuid.New(),
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          "ada@example.com",
		HashedPassword: "$2a$04$hash",
		BirthDate:      time.Date(1990, 12, 10, 0, 0, 0, 0, time.UTC),
		TodoList:       []*domain.Item{},
		CreatedAt:      fixedNow,
		UpdatedAt:      fixedNow,
	}
}

func testItem(name string) *domain.Item {
	return &domain.Item{
		ID:           uuid.New(),
		Name:         name,
		Content:      "some content",
		CreationDate: fixedNow,
	}
}

// MockJWTService mocks the auth.JWTService interface.
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Claims), args.Error(1)
}

// testAuthConfig is shared by handlers built outside the router.
var testAuthConfig = func() *config.AuthConfig {
	cfg := auth.DefaultJWTConfig()
	return &cfg
}()
