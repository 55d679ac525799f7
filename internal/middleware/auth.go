package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskvault/taskvault-api/internal/auth"
	apierrors "github.com/taskvault/taskvault-api/internal/errors"
)

const contextKeyUserID = "userID"

// RequireAuth validates the bearer token and injects the authenticated
// account ID into the request context. Validation is signature and expiry
// only; no store lookup happens here, so a token for a since-deleted
// account still passes.
func RequireAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractBearerToken(c)
		if tokenStr == "" {
			apierrors.Unauthorized(c, "Missing auth token")
			c.Abort()
			return
		}

		userIDHex, err := tokens.Validate(tokenStr)
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		userID, err := primitive.ObjectIDFromHex(userIDHex)
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(contextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the authenticated account ID from context.
func GetUserID(c *gin.Context) (primitive.ObjectID, bool) {
	value, exists := c.Get(contextKeyUserID)
	if !exists {
		return primitive.NilObjectID, false
	}

	userID, ok := value.(primitive.ObjectID)
	return userID, ok
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
