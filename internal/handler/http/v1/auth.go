package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sebahatselcuk/campus-tracker/internal/models"
	"github.com/sebahatselcuk/campus-tracker/internal/service"
	"github.com/sirupsen/logrus"
)

const userClaimsKey = "userClaims"

// JWTAuthMiddleware - middleware для аутентификации по токену сессии
func JWTAuthMiddleware(auth service.AuthService, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			log.Warn("Authorization token missing from request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token required"})
			return
		}

		claims, err := auth.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			log.WithError(err).Warn("Invalid session token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(userClaimsKey, claims)
		c.Next()
	}
}

// AdminOnlyMiddleware пропускает только администраторов. Для остальных
// административные маршруты просто недоступны.
func AdminOnlyMiddleware(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := userClaims(c)
		if claims == nil || claims.Role != models.RoleAdministrator {
			log.Warn("Admin route refused: not an administrator")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "administrator role required"})
			return
		}
		c.Next()
	}
}

// userClaims достает claims текущего пользователя из контекста запроса
func userClaims(c *gin.Context) *service.Claims {
	v, ok := c.Get(userClaimsKey)
	if !ok {
		return nil
	}
	claims, ok := v.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}
