// Package domain holds the to-do list entities and the business rules that
// govern them: user validity, item validity, list capacity, the creation
// cooldown between items, and the triggers fired after a successful add.
// It has no knowledge of storage or transport; side effects are reached
// through the Notifier and Persister interfaces.
package domain
