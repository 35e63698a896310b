package auth

import (
	"fmt"

	"github.com/phrazzld/todo-api/internal/config"
)

// DefaultJWTConfig returns a configuration for JWT authentication suitable for testing.
func DefaultJWTConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            "test-jwt-secret-that-is-32-chars-long",
		TokenLifetimeMinutes: 60,
		BcryptCost:           4,
	}
}

// MustCreateTestJWTService creates a JWT service with DefaultJWTConfig and
// panics if it fails.
func MustCreateTestJWTService() JWTService {
	service, err := NewJWTService(DefaultJWTConfig())
	if err != nil {
		panic(fmt.Sprintf("failed to create test JWT service: %v", err))
	}
	return service
}
