package middleware

import (
	"aime-backend/internal/errors"
	"aime-backend/internal/model"
	"aime-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StaffMiddleware 确保只有员工可以访问某些路由，需要在 AuthMiddleware 之后使用
func StaffMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			util.Logger.Warn("用户ID不存在", zap.String("path", c.Request.URL.Path))
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "authentication required"))
			c.Abort()
			return
		}

		if c.GetString("role") != model.RoleStaff {
			util.Logger.Warn("非员工访问",
				zap.Any("user_id", userID),
				zap.String("role", c.GetString("role")),
				zap.String("path", c.Request.URL.Path))
			errors.HandleError(c, errors.New(errors.ErrForbidden, "staff access required"))
			c.Abort()
			return
		}

		c.Next()
	}
}
