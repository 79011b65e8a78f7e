package middleware

import (
	"aime-backend/internal/errors"
	"aime-backend/internal/util"
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware 校验 Bearer 令牌，并把 user_id 与 role 写入上下文
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		util.Logger.Debug("进入认证中间件",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "authentication required"))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := util.ValidateToken(parts[1])
		if err != nil {
			errors.HandleError(c, errors.Wrap(errors.ErrInvalidToken, "invalid or expired token", err))
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)

		select {
		case <-ctx.Done():
			errors.HandleError(c, errors.New(errors.ErrTimeout, "request timed out"))
			c.Abort()
			return
		default:
			c.Next()
		}
	}
}
