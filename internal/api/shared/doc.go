// Package shared holds the request and response helpers and context keys
// used by both the api handlers and the api middleware.
package shared
