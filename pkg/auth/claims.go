package auth

import "github.com/golang-jwt/jwt/v5"

// RoleAdmin is the only role accepted on administrative routes.
const RoleAdmin = "admin"

// AdminTokenPayload captures the data available when minting an admin JWT.
type AdminTokenPayload struct {
	Subject string
	Role    string
	JTI     string
}

// AdminClaims represents the typed JWT presented on /api/admin routes.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
