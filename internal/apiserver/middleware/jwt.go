package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/luminahq/lumina/internal/auth/jwt"
	"github.com/luminahq/lumina/internal/common/cnst"
)

// JWTAuthMiddleware creates a middleware that validates JWT tokens
func JWTAuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		claims, err := jwtService.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(cnst.ContextClaims, claims)
		c.Next()
	}
}

// Claims extracts the validated JWT claims from the context. The bool
// is false for unauthenticated requests.
func Claims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(cnst.ContextClaims)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	return claims, ok
}
