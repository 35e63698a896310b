package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
)

// ItemStore defines the interface for to-do item persistence.
type ItemStore interface {
	// ListByUser returns the items of a user ordered by creation date.
	// An unknown user yields an empty list.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Item, error)

	// ListByUsers returns the items of several users in one query, keyed by
	// user ID and ordered by creation date. Users without items are absent
	// from the map.
	ListByUsers(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]*domain.Item, error)

	// PersistTodoList stores every item of user.TodoList that is not yet
	// saved. Existing items are left untouched.
	PersistTodoList(ctx context.Context, user *domain.User) error

	// WithTx returns a new ItemStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ItemStore
}

var _ domain.Persister = ItemStore(nil)
