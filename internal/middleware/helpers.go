// internal/middleware/helpers.go
package middleware

import (
	"entitlement-service/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// GetIdentityID gets identity ID from context
func GetIdentityID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("identity_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// MustGetIdentityID gets identity ID from context or panics
func MustGetIdentityID(c *gin.Context) int64 {
	id, exists := GetIdentityID(c)
	if !exists {
		panic("identity_id not found in context")
	}
	return id
}

// MustGetWorkspaceID gets the resolved workspace ID or panics.
// Set by RequireWorkspaceAccess.
func MustGetWorkspaceID(c *gin.Context) int64 {
	v, exists := c.Get("workspace_id")
	if !exists {
		panic("workspace_id not found in context")
	}
	id, ok := v.(int64)
	if !ok {
		panic("workspace_id has wrong type")
	}
	return id
}

// MustGetClaims gets verified token claims or panics
func MustGetClaims(c *gin.Context) *jwt.Claims {
	v, exists := c.Get("claims")
	if !exists {
		panic("claims not found in context")
	}
	claims, ok := v.(*jwt.Claims)
	if !ok {
		panic("claims have wrong type")
	}
	return claims
}

// GetRoles gets user roles from context
func GetRoles(c *gin.Context) []string {
	roles, exists := c.Get("roles")
	if !exists {
		return []string{}
	}

	rolesList, ok := roles.([]string)
	if !ok {
		return []string{}
	}

	return rolesList
}

// IsAuthenticated checks if request is authenticated
func IsAuthenticated(c *gin.Context) bool {
	_, exists := c.Get("identity_id")
	return exists
}
