package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/service/auth"
	"github.com/phrazzld/todo-api/internal/store"
)

// RegisterUserInput carries the data needed to register a user.
type RegisterUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	BirthDate time.Time
}

// TodoService provides the user and to-do list operations.
type TodoService interface {
	// RegisterUser validates and stores a new user with an empty to-do list.
	// Returns a domain validation error or store.ErrEmailExists.
	RegisterUser(ctx context.Context, input RegisterUserInput) (*domain.User, error)

	// ListUsers returns every registered user with its to-do list.
	ListUsers(ctx context.Context) ([]*domain.User, error)

	// GetUser returns a user with its to-do list.
	// Returns store.ErrUserNotFound if the user does not exist.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// ListItems returns the to-do list of a user.
	// Returns store.ErrUserNotFound if the user does not exist.
	ListItems(ctx context.Context, userID uuid.UUID) ([]*domain.Item, error)

	// AddItem creates an item and adds it to the user's to-do list, enforcing
	// every list rule. The list is persisted in the same transaction.
	AddItem(ctx context.Context, userID uuid.UUID, name, content string) (*domain.Item, error)

	// Authenticate returns the user owning email if password matches.
	// Returns ErrInvalidCredentials otherwise.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
}

// todoServiceImpl implements the TodoService interface
type todoServiceImpl struct {
	db        *sql.DB
	userStore store.UserStore
	itemStore store.ItemStore
	hasher    auth.PasswordHasher
	notifier  domain.Notifier
	rules     domain.Rules
	logger    *slog.Logger
}

// Ensure todoServiceImpl implements TodoService interface
var _ TodoService = (*todoServiceImpl)(nil)

// NewTodoService creates a new TodoService. notifier may be nil, in which
// case no notifications are sent.
func NewTodoService(
	db *sql.DB,
	userStore store.UserStore,
	itemStore store.ItemStore,
	hasher auth.PasswordHasher,
	notifier domain.Notifier,
	rules domain.Rules,
	logger *slog.Logger,
) (TodoService, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if userStore == nil || itemStore == nil {
		return nil, errors.New("stores cannot be nil")
	}
	if hasher == nil {
		return nil, errors.New("password hasher cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &todoServiceImpl{
		db:        db,
		userStore: userStore,
		itemStore: itemStore,
		hasher:    hasher,
		notifier:  notifier,
		rules:     rules,
		logger:    logger.With("component", "todo_service"),
	}, nil
}

// RegisterUser implements TodoService.RegisterUser
func (s *todoServiceImpl) RegisterUser(ctx context.Context, input RegisterUserInput) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user := domain.NewUser(input.FirstName, input.LastName, input.Email, input.Password, input.BirthDate)
	if err := user.Validate(s.rules); err != nil {
		log.Debug("user registration rejected",
			"reason", domain.ReasonOf(err))
		return nil, err
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("attempted to register existing email")
		} else {
			log.Error("failed to save user", "error", err)
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	log.Info("user registered", "user_id", user.ID)
	return user, nil
}

// ListUsers implements TodoService.ListUsers
func (s *todoServiceImpl) ListUsers(ctx context.Context) ([]*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	users, err := s.userStore.List(ctx)
	if err != nil {
		log.Error("failed to list users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	if len(users) == 0 {
		return users, nil
	}

	ids := make([]uuid.UUID, len(users))
	for i, user := range users {
		ids[i] = user.ID
	}
	itemsByUser, err := s.itemStore.ListByUsers(ctx, ids)
	if err != nil {
		log.Error("failed to retrieve todo lists", "error", err, "user_count", len(users))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	for _, user := range users {
		user.TodoList = itemsByUser[user.ID]
		if user.TodoList == nil {
			user.TodoList = []*domain.Item{}
		}
	}
	return users, nil
}

// GetUser implements TodoService.GetUser
func (s *todoServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			log.Error("failed to retrieve user", "error", err, "user_id", userID)
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	items, err := s.itemStore.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to retrieve todo list", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to retrieve todo list: %w", err)
	}
	user.TodoList = items

	return user, nil
}

// ListItems implements TodoService.ListItems
func (s *todoServiceImpl) ListItems(ctx context.Context, userID uuid.UUID) ([]*domain.Item, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.TodoList, nil
}

// AddItem implements TodoService.AddItem.
// The user row is locked for the duration of the transaction so concurrent
// additions for the same user are checked against each other's results.
func (s *todoServiceImpl) AddItem(
	ctx context.Context,
	userID uuid.UUID,
	name, content string,
) (*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With("user_id", userID)

	item := domain.NewItemAt(s.rules, name, content)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		user, err := s.userStore.WithTx(tx).LockByID(ctx, userID)
		if err != nil {
			return err
		}

		txItems := s.itemStore.WithTx(tx)
		items, err := txItems.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		user.TodoList = items

		return user.AddItem(ctx, item, s.rules, domain.Triggers{
			Notifier:  s.notifier,
			Persister: txItems,
		})
	})
	if err != nil {
		switch {
		case domain.IsValidationError(err):
			log.Debug("item rejected", "reason", domain.ReasonOf(err), "item_name", name)
		case errors.Is(err, store.ErrUserNotFound):
			log.Debug("item added for unknown user")
		default:
			log.Error("failed to add item", "error", err)
		}
		return nil, fmt.Errorf("failed to add item: %w", err)
	}

	log.Info("item added", "item_id", item.ID)
	return item, nil
}

// Authenticate implements TodoService.Authenticate
func (s *todoServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login attempt for unknown email")
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to retrieve user by email", "error", err)
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			log.Debug("login attempt with wrong password", "user_id", user.ID)
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to compare password hash", "error", err, "user_id", user.ID)
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	return user, nil
}
