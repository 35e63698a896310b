// Package notification delivers user notifications in the background.
//
// Dispatcher implements domain.Notifier: Notify only enqueues a Message on a
// bounded queue and returns. A fixed pool of workers hands queued messages to
// a Mailer, retrying transient failures with exponential backoff.
package notification
