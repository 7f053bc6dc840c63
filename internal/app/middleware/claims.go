package middleware

import (
	"tender-backend/internal/app/ds"

	"github.com/gin-gonic/gin"
)

const claimsContextKey = "authClaims"

// SetClaims сохраняет claims аутентифицированного пользователя в контексте
func SetClaims(c *gin.Context, claims *ds.JWTClaims) {
	c.Set(claimsContextKey, claims)
}

// ClaimsFromContext извлекает claims, положенные WithAuthCheck.
// Обработчики передают их дальше явным аргументом — никакого
// глобального "текущего пользователя" в коде нет.
func ClaimsFromContext(c *gin.Context) (*ds.JWTClaims, bool) {
	value, exists := c.Get(claimsContextKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*ds.JWTClaims)
	if !ok {
		return nil, false
	}
	return claims, true
}
