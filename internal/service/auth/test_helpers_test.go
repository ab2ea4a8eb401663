package auth

import "github.com/Tooflex/task-manager-server/internal/config"

// testAuthConfig builds an AuthConfig with the given secret and a
// one-hour token lifetime.
func testAuthConfig(secret string) config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            secret,
		TokenLifetimeMinutes: 60,
	}
}
