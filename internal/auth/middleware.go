package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxMemberID = "member_id"
	ctxEmail    = "member_email"
	ctxRole     = "member_role"
)

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg, "code": "UNAUTHORIZED"})
}

func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			unauthorized(c, "Authorization header required")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) != "Bearer" {
			unauthorized(c, "Invalid authorization header format")
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			unauthorized(c, "Token is empty")
			return
		}

		claims, err := ValidateToken(tokenString, secret)
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				unauthorized(c, "Token expired")
			} else {
				unauthorized(c, "Invalid or malformed token")
			}
			return
		}

		if claims.TokenType != tokenTypeAccess {
			unauthorized(c, "Access token required")
			return
		}

		c.Set(ctxMemberID, claims.MemberID)
		c.Set(ctxEmail, claims.Email)
		c.Set(ctxRole, claims.Role)

		c.Next()
	}
}

func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok {
			unauthorized(c, "Member role not found")
			return
		}

		if role != requiredRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions", "code": "FORBIDDEN"})
			return
		}

		c.Next()
	}
}

func GetMemberID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ctxMemberID)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil, false
	}

	return id, true
}

func GetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxRole)
	if !exists {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}

func GetEmail(c *gin.Context) string {
	return c.GetString(ctxEmail)
}

// SetIdentity stores an authenticated identity on the context. Used by tests
// that bypass token parsing.
func SetIdentity(c *gin.Context, memberID uuid.UUID, role string) {
	c.Set(ctxMemberID, memberID)
	c.Set(ctxRole, role)
}
