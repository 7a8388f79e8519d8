package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "finflow/internal/errors"
	"finflow/internal/logger"
)

// ErrorHandler returns a Gin middleware that converts errors attached with
// c.Error into JSON error responses. AppErrors keep their code and message;
// anything else becomes INTERNAL_ERROR. Responses already written are left alone.
func ErrorHandler() gin.HandlerFunc {
	log := logger.Named("http")

	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		// the last error is the most relevant in a middleware chain
		err := c.Errors.Last().Err

		appErr := apperrors.ErrInternalServer
		if !errors.As(err, &appErr) {
			log.Errorw("unexpected error",
				"error", err.Error(),
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
			)
		} else if appErr.Internal != nil {
			log.Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}

		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
	}
}
