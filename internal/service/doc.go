// Package service holds the application use cases of the to-do API.
// TodoService coordinates the domain rules with the stores, password
// hashing and the notification dispatcher, and owns transaction boundaries.
package service
