package auth

import (
	"github.com/angelmondragon/rateboard-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the typed payload carried by every bearer token: {id, role}.
type Claims struct {
	UserID uuid.UUID  `json:"id"`
	Role   enums.Role `json:"role"`
	jwt.RegisteredClaims
}
