package stats

import (
	"aime-backend/internal/model"
	"aime-backend/internal/util"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StatsProvider 提供站点统计快照
type StatsProvider interface {
	GetSiteStatistics(ctx context.Context) (*model.SiteStats, error)
}

type StatsHandler struct {
	statsService StatsProvider
}

func NewStatsHandler(statsService StatsProvider) *StatsHandler {
	return &StatsHandler{statsService}
}

// GetStats 返回统计快照及格式化后的主要指标，失败时返回 500 与错误描述
func (h *StatsHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.GetSiteStatistics(c.Request.Context())
	if err != nil {
		util.Logger.Error("获取站点统计失败", zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"stats":     stats,
		"formatted": stats.Formatted(),
	})
}
