package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nexlink/nexlink-backend/internal/common"
	"github.com/nexlink/nexlink-backend/pkg/jwt"
)

// JWTAuth JWT authentication middleware. Tokens are read from the
// Authorization bearer header only.
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return jwtAuth(jwtManager, false)
}

// JWTAuthUpgrade authenticates WebSocket upgrade requests. Browsers cannot
// set headers on the handshake, so a token query param is accepted here too.
func JWTAuthUpgrade(jwtManager *jwt.Manager) gin.HandlerFunc {
	return jwtAuth(jwtManager, true)
}

func jwtAuth(jwtManager *jwt.Manager, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c, allowQuery)
		if tokenString == "" {
			common.ErrorResponse(c, 401, "Missing authorization header", nil)
			c.Abort()
			return
		}

		claims, err := jwtManager.VerifyToken(tokenString)
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				common.ErrorResponse(c, 401, "Token expired", err)
			} else {
				common.ErrorResponse(c, 401, "Invalid token", err)
			}
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)

		c.Next()
	}
}

func extractToken(c *gin.Context, allowQuery bool) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	if allowQuery {
		return c.Query("token")
	}
	return ""
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) int64 {
	userID, exists := c.Get("userID")
	if !exists {
		return 0
	}
	if id, ok := userID.(int64); ok {
		return id
	}
	return 0
}

// GetUsername extracts username from context
func GetUsername(c *gin.Context) string {
	username, exists := c.Get("username")
	if !exists {
		return ""
	}
	if str, ok := username.(string); ok {
		return str
	}
	return ""
}

// GetRole extracts role from context
func GetRole(c *gin.Context) string {
	role, exists := c.Get("role")
	if !exists {
		return ""
	}
	if str, ok := role.(string); ok {
		return str
	}
	return ""
}
