// Package auth provides password hashing with bcrypt and HMAC-signed JWT
// access tokens for the HTTP API.
package auth
