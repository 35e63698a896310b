package domain

import "context"

// Notifier sends a message to a user. Delivery may be asynchronous; a
// returned error only means the message could not be handed off.
type Notifier interface {
	Notify(ctx context.Context, user *User, message string) error
}

// Persister durably stores a user's to-do list.
type Persister interface {
	PersistTodoList(ctx context.Context, user *User) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, user *User, message string) error

// Notify calls f(ctx, user, message).
func (f NotifierFunc) Notify(ctx context.Context, user *User, message string) error {
	return f(ctx, user, message)
}

// PersisterFunc adapts a function to the Persister interface.
type PersisterFunc func(ctx context.Context, user *User) error

// PersistTodoList calls f(ctx, user).
func (f PersisterFunc) PersistTodoList(ctx context.Context, user *User) error {
	return f(ctx, user)
}

// Triggers are the side effects AddItem runs after a successful append.
// Either field may be nil.
type Triggers struct {
	Notifier  Notifier
	Persister Persister
}
