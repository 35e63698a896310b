package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/store"
)

// PostgresItemStore implements the store.ItemStore interface
// using a PostgreSQL database as the storage backend.
type PostgresItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresItemStore creates a new PostgreSQL implementation of the ItemStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresItemStore(db store.DBTX, logger *slog.Logger) *PostgresItemStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "item_store")),
	}
}

// Ensure PostgresItemStore implements store.ItemStore interface
var _ store.ItemStore = (*PostgresItemStore)(nil)

// WithTx implements store.ItemStore.WithTx
func (s *PostgresItemStore) WithTx(tx *sql.Tx) store.ItemStore {
	return &PostgresItemStore{
		db:     tx,
		logger: s.logger,
	}
}

// ListByUser implements store.ItemStore.ListByUser
func (s *PostgresItemStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := psql.Select("id", "name", "content", "creation_date").
		From("items").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("creation_date ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build item list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list items",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]*domain.Item, 0)
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Content, &item.CreationDate); err != nil {
			log.Error("failed to scan item row",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
			return nil, MapError(err)
		}
		item.CreationDate = item.CreationDate.UTC()
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating item rows",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}

	log.Debug("listed items",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(items)))
	return items, nil
}

// ListByUsers implements store.ItemStore.ListByUsers
func (s *PostgresItemStore) ListByUsers(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	byUser := make(map[uuid.UUID][]*domain.Item, len(userIDs))
	if len(userIDs) == 0 {
		return byUser, nil
	}

	query, args, err := psql.Select("user_id", "id", "name", "content", "creation_date").
		From("items").
		Where(squirrel.Eq{"user_id": userIDs}).
		OrderBy("user_id ASC", "creation_date ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build item list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list items",
			slog.String("error", err.Error()),
			slog.Int("user_count", len(userIDs)))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	count := 0
	for rows.Next() {
		var userID uuid.UUID
		var item domain.Item
		if err := rows.Scan(&userID, &item.ID, &item.Name, &item.Content, &item.CreationDate); err != nil {
			log.Error("failed to scan item row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		item.CreationDate = item.CreationDate.UTC()
		byUser[userID] = append(byUser[userID], &item)
		count++
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating item rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	log.Debug("listed items for users",
		slog.Int("user_count", len(userIDs)),
		slog.Int("count", count))
	return byUser, nil
}

// PersistTodoList implements store.ItemStore.PersistTodoList.
// Items already stored are skipped through ON CONFLICT on the primary key.
func (s *PostgresItemStore) PersistTodoList(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(user.TodoList) == 0 {
		return nil
	}

	builder := psql.Insert("items").
		Columns("id", "user_id", "name", "content", "creation_date").
		Suffix("ON CONFLICT (id) DO NOTHING")
	for _, item := range user.TodoList {
		builder = builder.Values(item.ID, user.ID, item.Name, item.Content, item.CreationDate)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build item insert: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("persisting items for unknown user",
				slog.String("user_id", user.ID.String()))
			return fmt.Errorf("%w: user with ID %s not found", store.ErrInvalidEntity, user.ID)
		}
		log.Error("failed to persist todo list",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err)
	}

	inserted, _ := result.RowsAffected()
	log.Debug("todo list persisted",
		slog.String("user_id", user.ID.String()),
		slog.Int("list_size", len(user.TodoList)),
		slog.Int64("inserted", inserted))
	return nil
}
