package middleware

import (
	"net/http"
	"strings"

	"taskboard/internal/auth"
	"taskboard/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	UserIDKey   = "userID"
	UserNameKey = "userName"
)

// JWTAuthMiddleware validates the bearer token and stores the actor
// identity in the request context. The events stream cannot set headers,
// so a token query parameter is accepted as a fallback.
func JWTAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := ""
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			tokenStr = strings.TrimPrefix(header, "Bearer ")
		} else if t := c.Query("token"); t != "" {
			tokenStr = t
		}

		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
			return
		}

		userID, name, err := auth.ParseToken(jwtSecret, tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Set(UserNameKey, name)
		c.Next()
	}
}

// ActorFromContext reads the identity placed by JWTAuthMiddleware.
func ActorFromContext(c *gin.Context) (model.Actor, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return model.Actor{}, false
	}
	userID, ok := v.(uuid.UUID)
	if !ok {
		return model.Actor{}, false
	}
	name := c.GetString(UserNameKey)
	return model.Actor{ID: userID, Name: name}, true
}
