package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"argentbank/internal/auth"
	apperrors "argentbank/internal/errors"
)

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "userID"

// AuthMiddleware verifies the bearer token and sets the user id in the context.
// Failures are recorded on the context and rendered by ErrorHandler.
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortWithError(c, apperrors.ErrUnauthenticated)
			return
		}

		userID, err := tokens.Verify(tokenString)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// bearerToken extracts the credential of a "Bearer <token>" header. The
// scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
