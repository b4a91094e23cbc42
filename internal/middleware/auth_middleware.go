package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tripbound/travel-booking-backend/internal/models"
	"github.com/tripbound/travel-booking-backend/pkg/jwt"
)

// UserContextKey is the key used to store the principal in Gin context
const UserContextKey = "user"

// AuthMiddleware creates a middleware that validates JWT tokens and
// stores the authenticated principal on the request context
func AuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logrus.WithFields(logrus.Fields{
				"path": c.Request.URL.Path,
				"ip":   c.ClientIP(),
			}).Warn("Missing authorization header")
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "Authorization header must be in format: Bearer <token>")
			return
		}

		claims, err := jwtService.ValidateToken(parts[1])
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"path":  c.Request.URL.Path,
				"ip":    c.ClientIP(),
				"error": err.Error(),
			}).Warn("Token validation failed")
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(UserContextKey, models.Principal{
			ID:    claims.UserID,
			Email: claims.Email,
			Name:  claims.Name,
		})
		c.Next()
	}
}

// GetUser retrieves the authenticated principal from the Gin context
func GetUser(c *gin.Context) (models.Principal, bool) {
	value, exists := c.Get(UserContextKey)
	if !exists {
		return models.Principal{}, false
	}
	user, ok := value.(models.Principal)
	return user, ok
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"message": message,
			"code":    "UNAUTHORIZED",
		},
	})
}
