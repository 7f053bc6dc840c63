package ds

import (
	"tender-backend/internal/app/role"

	"github.com/golang-jwt/jwt"
)

// JWTClaims — полезная нагрузка access/refresh токенов.
// Для суперпользователя Role содержит роль, под которой он вошёл.
type JWTClaims struct {
	jwt.StandardClaims
	UserID      uint      `json:"user_id"`
	Role        role.Role `json:"role"`
	IsSuperuser bool      `json:"is_superuser"`
}
