package domain

import (
	"time"

	"github.com/google/uuid"
)

// Item is a single entry of a user's to-do list.
type Item struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Content      string    `json:"content"`
	CreationDate time.Time `json:"creation_date"`
}

// NewItem creates an Item stamped with the current UTC time.
// The item is not validated; call Validate before relying on it.
func NewItem(name, content string) *Item {
	return newItemAt(name, content, utcNow())
}

// NewItemAt creates an Item using the clock of the given rules.
func NewItemAt(rules Rules, name, content string) *Item {
	return newItemAt(name, content, rules.now())
}

func newItemAt(name, content string, at time.Time) *Item {
	return &Item{
		ID:           uuid.New(),
		Name:         name,
		Content:      content,
		CreationDate: at,
	}
}

// Validate checks content length, then name format.
// Returns a ValidationError wrapping ErrItemNotValid on the first failure.
func (i *Item) Validate(rules Rules) error {
	if !rules.ValidContent(i.Content) {
		return itemInvalid(ReasonContentTooLong)
	}
	if !rules.ValidName(i.Name) {
		return itemInvalid(ReasonItemName)
	}
	return nil
}
