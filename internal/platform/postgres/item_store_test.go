package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItem(name string, at time.Time) *domain.Item {
	return &domain.Item{
		ID:           uuid.New(),
		Name:         name,
		Content:      "content of " + name,
		CreationDate: at,
	}
}

func TestPostgresItemStore_ListByUser(t *testing.T) {
	t.Run("returns items in order", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresItemStore(db, nil)
		userID := uuid.New()
		base := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
		a, b := testItem("Groceries", base), testItem("Laundry", base.Add(time.Hour))

		rows := sqlmock.NewRows([]string{"id", "name", "content", "creation_date"}).
			AddRow(a.ID.String(), a.Name, a.Content, a.CreationDate).
			AddRow(b.ID.String(), b.Name, b.Content, b.CreationDate)
		mock.ExpectQuery(`SELECT id, name, content, creation_date FROM items WHERE user_id = \$1 ORDER BY creation_date ASC, id ASC`).
			WithArgs(userID).
			WillReturnRows(rows)

		items, err := s.ListByUser(context.Background(), userID)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, a.ID, items[0].ID)
		assert.Equal(t, "Laundry", items[1].Name)
		assert.True(t, b.CreationDate.Equal(items[1].CreationDate))
	})

	t.Run("no items", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresItemStore(db, nil)

		mock.ExpectQuery(`FROM items`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "content", "creation_date"}))

		items, err := s.ListByUser(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("query error", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresItemStore(db, nil)
		dbErr := errors.New("connection refused")

		mock.ExpectQuery(`FROM items`).WillReturnError(dbErr)

		_, err := s.ListByUser(context.Background(), uuid.New())
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestPostgresItemStore_ListByUsers(t *testing.T) {
	t.Run("groups items by user in one query", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresItemStore(db, nil)
		alice, bob, carol := uuid.New(), uuid.New(), uuid.New()
		base := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
		a1, a2 := testItem("Groceries", base), testItem("Laundry", base.Add(time.Hour))
		b1 := testItem("Dishes", base)

		rows := sqlmock.NewRows([]string{"user_id", "id", "name", "content", "creation_date"}).
			AddRow(alice.String(), a1.ID.String(), a1.Name, a1.Content, a1.CreationDate).
			AddRow(alice.String(), a2.ID.String(), a2.Name, a2.Content, a2.CreationDate).
			AddRow(bob.String(), b1.ID.String(), b1.Name, b1.Content, b1.CreationDate)
		mock.ExpectQuery(`SELECT user_id, id, name, content, creation_date FROM items WHERE user_id IN \(\$1,\$2,\$3\) ORDER BY user_id ASC, creation_date ASC, id ASC`).
			WithArgs(alice, bob, carol).
			WillReturnRows(rows)

		byUser, err := s.ListByUsers(context.Background(), []uuid.UUID{alice, bob, carol})
		require.NoError(t, err)
		require.Len(t, byUser[alice], 2)
		assert.Equal(t, "Groceries", byUser[alice][0].Name)
		assert.Equal(t, "Laundry", byUser[alice][1].Name)
		require.Len(t, byUser[bob], 1)
		assert.Equal(t, b1.ID, byUser[bob][0].ID)
		assert.NotContains(t, byUser, carol)
	})

	t.Run("no users issues no query", func(t *testing.T) {
		db, _ := newMock(t)
		s := NewPostgresItemStore(db, nil)

		byUser, err := s.ListByUsers(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, byUser)
	})

	t.Run("query error", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresItemStore(db, nil)
		dbErr := errors.New("connection refused")

		mock.ExpectQuery(`FROM items WHERE user_id IN`).WillReturnError(dbErr)

		_, err := s.ListByUsers(context.Background(), []uuid.UUID{uuid.New()})
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestPostgresItemStore_PersistTodoList(t *testing.T) {
	base := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	t.Run("inserts every item and skips stored ones", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresItemStore(db, nil)
		u := testUser()
		a, b := testItem("Groceries", base), testItem("Laundry", base.Add(time.Hour))
		u.TodoList = []*domain.Item{a, b}

		mock.ExpectExec(`INSERT INTO items \(id,user_id,name,content,creation_date\) VALUES \(\$1,\$2,\$3,\$4,\$5\),\(\$6,\$7,\$8,\$9,\$10\) ON CONFLICT \(id\) DO NOTHING`).
			WithArgs(a.ID, u.ID, a.Name, a.Content, a.CreationDate, b.ID, u.ID, b.Name, b.Content, b.CreationDate).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.PersistTodoList(context.Background(), u))
	})

	t.Run("empty list is a no-op", func(t *testing.T) {
		db, _ := newMock(t)
		s := NewPostgresItemStore(db, nil)

		require.NoError(t, s.PersistTodoList(context.Background(), testUser()))
	})

	t.Run("unknown user", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresItemStore(db, nil)
		u := testUser()
		u.TodoList = []*domain.Item{testItem("Groceries", base)}

		mock.ExpectExec(`INSERT INTO items`).
			WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode})

		assert.ErrorIs(t, s.PersistTodoList(context.Background(), u), store.ErrInvalidEntity)
	})

	t.Run("duplicate name", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresItemStore(db, nil)
		u := testUser()
		u.TodoList = []*domain.Item{testItem("Groceries", base)}

		mock.ExpectExec(`INSERT INTO items`).
			WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "items_user_name_key"})

		assert.ErrorIs(t, s.PersistTodoList(context.Background(), u), store.ErrDuplicate)
	})

	t.Run("works as a domain persister inside a transaction", func(t *testing.T) {
		db, mock := newMock(t)
		u := testUser()
		u.TodoList = []*domain.Item{testItem("Groceries", base)}

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO items`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
			var p domain.Persister = NewPostgresItemStore(db, nil).WithTx(tx)
			return p.PersistTodoList(ctx, u)
		})
		require.NoError(t, err)
	})
}
