package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "finflow/internal/errors"
)

// APIKeyHeader carries the shared secret guarding the API.
const APIKeyHeader = "X-API-Key"

// APIKeyMiddleware rejects requests whose X-API-Key header does not match
// apiKey. The comparison is constant time.
func APIKeyMiddleware(apiKey string) gin.HandlerFunc {
	expected := []byte(apiKey)

	return func(c *gin.Context) {
		key := c.GetHeader(APIKeyHeader)
		if len(expected) == 0 || subtle.ConstantTimeCompare([]byte(key), expected) != 1 {
			err := apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid or missing API key")
			c.AbortWithStatusJSON(err.StatusCode, gin.H{
				"error": gin.H{"code": err.Code, "message": err.Message},
			})
			return
		}
		c.Next()
	}
}
