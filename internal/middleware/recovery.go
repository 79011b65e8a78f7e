package middleware

import (
	"aime-backend/internal/errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				traced := errors.NewTracedError(fmt.Errorf("panic: %v", r), errors.ErrorContext{
					RequestID: c.GetString(RequestIDKey),
					UserID:    c.GetInt("user_id"),
					Path:      c.Request.URL.Path,
					Method:    c.Request.Method,
				})
				zap.L().Error("发生panic",
					zap.Any("error", r),
					zap.String("request_id", traced.Context.RequestID),
					zap.String("path", traced.Context.Path),
					zap.String("stack", traced.Stack))

				errors.HandleError(c, errors.New(errors.ErrInternal, "internal server error"))
				c.Abort()
			}
		}()
		c.Next()
	}
}
