package cli

import (
	"fmt"
	"time"

	"city-guide/internal/domain/user"
	"city-guide/internal/general/jwt"
)

// GenerateUserToken mints a short-lived JWT for a seeded user.
// Dev-only helper; do not call it from production code paths.
func GenerateUserToken(secret string, userID string, roleStr string) (string, jwt.Claims, error) {
	role, err := user.ParseRole(roleStr)
	if err != nil {
		return "", jwt.Claims{}, fmt.Errorf("invalid role %q: %w", roleStr, err)
	}

	mgr := jwt.NewManager(secret, 2*time.Hour)

	token, claims, err := mgr.IssueUserToken(userID, role)
	if err != nil {
		return "", jwt.Claims{}, fmt.Errorf("issue token: %w", err)
	}

	return token, *claims, nil
}
