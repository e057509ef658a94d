// internal/pkg/jwt/claims.go
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the access-token claims minted by the external identity
// service. This service only verifies and reads them.
type Claims struct {
	IdentityID   int64    `json:"identity_id"`
	Roles        []string `json:"roles,omitempty"`
	WorkspaceIDs []int64  `json:"workspace_ids,omitempty"`
	jwt.RegisteredClaims
}

// HasRole checks if the claims contain a specific role.
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin checks if the caller is an admin (including super admin).
func (c *Claims) IsAdmin() bool {
	return c.HasRole("admin") || c.HasRole("super_admin")
}

// CanAccessWorkspace reports whether the token grants the workspace.
// Admins can access every workspace.
func (c *Claims) CanAccessWorkspace(workspaceID int64) bool {
	if c.IsAdmin() {
		return true
	}
	for _, id := range c.WorkspaceIDs {
		if id == workspaceID {
			return true
		}
	}
	return false
}

// VerifyAudience checks if the expected audience is listed in the claims.
func (c *Claims) VerifyAudience(audience string, required bool) bool {
	if len(c.Audience) == 0 {
		return !required
	}
	for _, aud := range c.Audience {
		if aud == audience {
			return true
		}
	}
	return false
}
