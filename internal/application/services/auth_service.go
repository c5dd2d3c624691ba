package services

import (
	"crypto/subtle"

	"github.com/tasklist/web/internal/infrastructure/config"
	"github.com/tasklist/web/internal/infrastructure/logger"
)

// AuthService verifies the single configured credential pair. Credentials are
// plaintext constants compared byte-exact; there is no hashing, lockout, or
// rate limiting at this layer. A known weakness of the product, kept on
// purpose rather than silently fixed.
type AuthService struct {
	username string
	password string
	logger   *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(cfg config.AuthConfig, logger *logger.Logger) *AuthService {
	return &AuthService{
		username: cfg.Username,
		password: cfg.Password,
		logger:   logger,
	}
}

// Verify reports whether the submitted pair matches the configured constants.
// The comparison is constant-time but still byte-exact.
func (s *AuthService) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	return userOK && passOK
}
