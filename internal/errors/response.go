package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 定义错误响应结构
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Error   string    `json:"error,omitempty"`
}

// SuccessResponse 定义成功响应结构
type SuccessResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// 错误码与HTTP状态码映射
var errorStatusMap = map[ErrorCode]int{
	// 系统错误 (1000-1999)
	ErrInternal: http.StatusInternalServerError,
	ErrDatabase: http.StatusInternalServerError,
	ErrTimeout:  http.StatusRequestTimeout,

	// 认证错误 (2000-2999)
	ErrUnauthorized: http.StatusUnauthorized,
	ErrForbidden:    http.StatusForbidden,
	ErrInvalidToken: http.StatusUnauthorized,

	// 请求错误 (3000-3999)
	ErrBadRequest:       http.StatusBadRequest,
	ErrValidation:       http.StatusBadRequest,
	ErrResourceNotFound: http.StatusNotFound,
	ErrResourceExists:   http.StatusConflict,
	ErrResourceConflict: http.StatusConflict,

	// 业务错误 (4000-4999)
	ErrEventInactive:     http.StatusBadRequest,
	ErrChallengeFull:     http.StatusConflict,
	ErrInvalidStatus:     http.StatusBadRequest,
	ErrAlreadyRegistered: http.StatusConflict,
}

// StatusOf 返回错误码对应的 HTTP 状态码
func StatusOf(code ErrorCode) int {
	if status, ok := errorStatusMap[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// HandleError 统一处理错误响应
func HandleError(c *gin.Context, err error) {
	_ = c.Error(err)

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		resp := ErrorResponse{
			Code:    appErr.Code,
			Message: appErr.Message,
		}
		if appErr.Err != nil {
			resp.Error = appErr.Err.Error()
		}
		c.JSON(StatusOf(appErr.Code), resp)
		return
	}

	// 处理非 AppError 类型的错误
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Code:    ErrInternal,
		Message: "Internal Server Error",
		Error:   err.Error(),
	})
}

// HandleSuccess 统一处理成功响应
func HandleSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, SuccessResponse{
		Code:    http.StatusOK,
		Message: message,
		Data:    data,
	})
}

// HandleCreated 统一处理创建成功响应
func HandleCreated(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, SuccessResponse{
		Code:    http.StatusCreated,
		Message: message,
		Data:    data,
	})
}
