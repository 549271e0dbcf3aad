package middleware

import (
	"net/http"
	"strings"

	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const WorkspaceIDKey = "workspace_id"

// WorkspaceClaims are the custom claims embedded in every access token.
// Membership checks happen upstream (the identity provider only issues
// tokens for workspaces the subject belongs to); this layer just scopes
// every request to one workspace.
type WorkspaceClaims struct {
	WorkspaceID string `json:"workspace_id"`
	jwt.RegisteredClaims
}

// WorkspaceAuth validates the Bearer token on every protected route and
// stores the caller's workspace id on the context.
func WorkspaceAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("authentication required"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &WorkspaceClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("invalid or expired token"))
			return
		}

		workspaceID, err := uuid.Parse(claims.WorkspaceID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("invalid or expired token"))
			return
		}

		c.Set(WorkspaceIDKey, workspaceID)
		c.Next()
	}
}

// WorkspaceID is a helper to retrieve the caller's workspace from the Gin context.
func WorkspaceID(c *gin.Context) uuid.UUID {
	id, _ := c.MustGet(WorkspaceIDKey).(uuid.UUID)
	return id
}
