package domain

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// User is the owner of a to-do list.
type User struct {
	ID             uuid.UUID `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext, only present during registration
	HashedPassword string    `json:"-"`
	BirthDate      time.Time `json:"birth_date"`
	TodoList       []*Item   `json:"todo_list"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a User with an empty to-do list.
// It does not validate; the caller decides when to call Validate.
func NewUser(firstName, lastName, email, password string, birthDate time.Time) *User {
	now := utcNow()
	return &User{
		ID:        uuid.New(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  password,
		BirthDate: birthDate,
		TodoList:  []*Item{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks, in order: email, password, first name, last name, birth date.
// Returns a ValidationError wrapping ErrUserNotValid for the first failure.
//
// The password strength rule applies to the plaintext password. A user loaded
// from storage has no plaintext, so it must carry a password hash instead.
func (u *User) Validate(rules Rules) error {
	if !ValidEmail(u.Email) {
		return userInvalid(ReasonEmail)
	}

	if u.Password != "" || u.HashedPassword == "" {
		if !ValidPassword(u.Password) {
			return userInvalid(ReasonPassword)
		}
	}

	if !rules.ValidName(u.FirstName) {
		return userInvalid(ReasonFirstName)
	}
	if !rules.ValidName(u.LastName) {
		return userInvalid(ReasonLastName)
	}

	if !rules.OldEnough(u.BirthDate) {
		return userInvalid(ReasonBirthDate)
	}

	return nil
}

// AddItem validates the user and the item, enforces the list invariants,
// appends the item and runs the triggers.
//
// Nothing is appended when a rule fails. A notification failure is logged
// and ignored. A persistence failure is returned wrapped in
// ErrPersistenceFailed after the item has been appended.
func (u *User) AddItem(ctx context.Context, item *Item, rules Rules, triggers Triggers) error {
	if err := u.Validate(rules); err != nil {
		return err
	}
	if err := item.Validate(rules); err != nil {
		return err
	}

	if len(u.TodoList) == rules.MaxTodolistCapacity {
		return capacityExceeded()
	}

	// Only the new item is required to trail existing ones.
	target := item.CreationDate.Add(-rules.ItemCooldown)
	for _, element := range u.TodoList {
		if element.Name == item.Name {
			return itemInvalid(ReasonDuplicateItem)
		}
		if target.Before(element.CreationDate) {
			return itemInvalid(ReasonItemTooClose)
		}
	}

	u.TodoList = append(u.TodoList, item)
	slog.DebugContext(ctx, "item added to user todo list",
		"user_id", u.ID,
		"item_name", item.Name,
		"list_length", len(u.TodoList))

	if len(u.TodoList) == rules.NotificationThreshold && triggers.Notifier != nil {
		if err := triggers.Notifier.Notify(ctx, u, NotificationMessage); err != nil {
			slog.WarnContext(ctx, "failed to send todo list notification",
				"error", err,
				"user_id", u.ID)
		}
	}

	if triggers.Persister != nil {
		if err := triggers.Persister.PersistTodoList(ctx, u); err != nil {
			return fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
		}
	}

	return nil
}
