package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"consular-queue/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

const (
	ctxAgentIDKey   = "agent_id"
	ctxAgentRoleKey = "agent_role"
)

// AuthMiddleware guards the agent-facing surface (call, finish, reopen,
// queue, admin). Citizen-facing booking endpoints stay open.
type AuthMiddleware struct {
	tokens *jwt.Service
}

func NewAuthMiddleware(tokens *jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) RequireAgent() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		agentID, role, err := m.tokens.ValidateToken(token)
		if err != nil {
			slog.Warn("token validation failed", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxAgentIDKey, agentID)
		c.Set(ctxAgentRoleKey, role)
		c.Next()
	}
}

// RequireAdmin must run after RequireAgent.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetAgentRole(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
			c.Abort()
			return
		}
		if role != jwt.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[len("Bearer "):])
}

func GetAgentID(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxAgentIDKey)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

func GetAgentRole(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxAgentRoleKey)
	if !exists {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}
