// Package httpkit provides HTTP utilities including workspace identity access.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WorkspaceID extracts the authenticated workspace ID from the request
// context. The second return value is false when the auth middleware did
// not run or the claim was absent.
func WorkspaceID(c *gin.Context) (uuid.UUID, bool) {
	value, ok := c.Get(ContextWorkspaceIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// MustWorkspaceID extracts the workspace ID or aborts with 401.
// Handlers should return immediately when ok is false.
func MustWorkspaceID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := WorkspaceID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing workspace"})
		return uuid.Nil, false
	}
	return id, true
}

// WorkspaceMatches verifies that the workspace referenced in a request body
// matches the authenticated workspace. Aborts with 403 on mismatch.
func WorkspaceMatches(c *gin.Context, requested uuid.UUID) bool {
	authenticated, ok := MustWorkspaceID(c)
	if !ok {
		return false
	}
	if requested != authenticated {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "workspace mismatch"})
		return false
	}
	return true
}
