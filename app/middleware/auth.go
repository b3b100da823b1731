package appMiddleware

import (
	"os"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const StaffIDKey contextKey = "staffID"
const StaffRoleKey contextKey = "staffRole"

// Claims identify the staff member or system integration calling the
// concierge API. Guest profiles travel in request bodies, never in tokens.
type Claims struct {
	StaffID  string `json:"staff_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Property string `json:"property"`
	jwt.RegisteredClaims
}

var jwtSecretKey = []byte(secretFromEnv())

func secretFromEnv() string {
	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		return secret
	}
	// Development fallback only; deployments set JWT_SECRET_KEY.
	return "resort-concierge-dev-secret"
}
