// internal/middleware/auth_middleware.go
package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"entitlement-service/internal/pkg/jwt"
	"entitlement-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	verifier *jwt.Verifier
}

func NewAuthMiddleware(verifier *jwt.Verifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

// Auth is the base authentication middleware that validates JWT tokens
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "missing authorization token", nil)
			return
		}

		claims, err := m.verifier.Verify(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid or expired token", err)
			return
		}

		// Set user context
		c.Set("identity_id", claims.IdentityID)
		c.Set("roles", claims.Roles)
		c.Set("workspace_ids", claims.WorkspaceIDs)
		c.Set("claims", claims)

		c.Next()
	}
}

// RequireRole middleware that requires user to have at least one of the specified roles
// MUST be used after Auth() middleware
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRoles := GetRoles(c)
		if len(userRoles) == 0 {
			response.Error(c, http.StatusForbidden, "no roles found - authentication required", nil)
			return
		}

		hasRole := false
		for _, userRole := range userRoles {
			for _, requiredRole := range roles {
				if userRole == requiredRole {
					hasRole = true
					break
				}
			}
			if hasRole {
				break
			}
		}

		if !hasRole {
			err := errors.New("user does not have required role")
			response.Error(c, http.StatusForbidden, "insufficient permissions", err, map[string]interface{}{
				"required_roles": roles,
				"user_roles":     userRoles,
			})
			return
		}

		c.Next()
	}
}

// RequireWorkspaceAccess resolves the :workspace_id path parameter and
// checks the token grants it. Admins bypass the check.
// MUST be used after Auth() middleware
func (m *AuthMiddleware) RequireWorkspaceAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		workspaceID, err := strconv.ParseInt(c.Param("workspace_id"), 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid workspace ID", err)
			return
		}

		claims := MustGetClaims(c)
		if !claims.CanAccessWorkspace(workspaceID) {
			response.Error(c, http.StatusForbidden, "workspace access denied", nil)
			return
		}

		c.Set("workspace_id", workspaceID)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" && strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
