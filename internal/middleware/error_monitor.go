package middleware

import (
	"aime-backend/internal/errors"
	"aime-backend/internal/metrics"
	stderrors "errors"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ErrorMonitor struct {
	errorCounts map[errors.ErrorCode]int
	mu          sync.RWMutex
	metrics     *metrics.Metrics
}

// NewErrorMonitor m 为 nil 时只在内存中计数
func NewErrorMonitor(m *metrics.Metrics) *ErrorMonitor {
	return &ErrorMonitor{
		errorCounts: make(map[errors.ErrorCode]int),
		metrics:     m,
	}
}

func (m *ErrorMonitor) RecordError(err error) {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		return
	}
	m.mu.Lock()
	m.errorCounts[appErr.Code]++
	m.mu.Unlock()
	m.metrics.RecordAppError(int(appErr.Code))
}

func (m *ErrorMonitor) GetErrorCounts() map[errors.ErrorCode]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[errors.ErrorCode]int)
	for code, count := range m.errorCounts {
		counts[code] = count
	}
	return counts
}

func ErrorMonitorMiddleware(monitor *ErrorMonitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, e := range c.Errors {
			monitor.RecordError(e.Err)
			var appErr *errors.AppError
			if stderrors.As(e.Err, &appErr) {
				zap.L().Error("请求处理错误",
					zap.Int("error_code", int(appErr.Code)),
					zap.String("error_message", appErr.Message),
					zap.Error(appErr.Err),
					zap.String("request_id", c.GetString(RequestIDKey)),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method))
			}
		}
	}
}
