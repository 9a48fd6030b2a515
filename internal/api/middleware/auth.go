package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// UserIDKey is the key used to store the authenticated user ID in the context
	UserIDKey = "user_id"
)

// Auth middleware validates the Bearer token on protected routes and stores
// the authenticated user ID in the request context. Tokens are HMAC-signed
// with the configured secret; the subject claim carries the user ID.
func Auth(logger *slog.Logger, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respondUnauthorized(c, "Missing Authorization header")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			respondUnauthorized(c, "Authorization header must use the Bearer scheme")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			logger.Warn("Rejected request with invalid token", "path", c.Request.URL.Path, "error", err)
			respondUnauthorized(c, "Invalid or expired token")
			return
		}

		subject, err := token.Claims.GetSubject()
		if err != nil {
			respondUnauthorized(c, "Invalid or expired token")
			return
		}

		userID, err := uuid.Parse(subject)
		if err != nil {
			logger.Warn("Token subject is not a valid user ID", "subject", subject)
			respondUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// GetUserID returns the authenticated user ID stored by the Auth middleware.
// The second return value is false on routes the middleware did not run on.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}

func respondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
		"correlation_id": GetCorrelationID(c),
	})
}
