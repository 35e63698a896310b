// Package api handles incoming HTTP requests for the to-do service: routing,
// request decoding and validation, and mapping service results and errors
// to HTTP responses. Handlers hold no business logic; every rule lives in
// the domain package and is reached through service.TodoService.
package api
