package user

import (
	"aime-backend/internal/errors"
	"aime-backend/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

// DashboardHandler 仪表盘、通知与排行榜
type DashboardHandler struct {
	profileService      *service.ProfileService
	notificationService *service.NotificationService
}

func NewDashboardHandler(profileService *service.ProfileService, notificationService *service.NotificationService) *DashboardHandler {
	return &DashboardHandler{profileService, notificationService}
}

func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.profileService.GetDashboard(c.Request.Context(), c.GetInt("user_id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, dashboard, "")
}

func (h *DashboardHandler) ListNotifications(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	notifications, err := h.notificationService.ListNotifications(c.Request.Context(), c.GetInt("user_id"), limit)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"notifications": notifications}, "")
}

func (h *DashboardHandler) MarkNotificationRead(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "invalid notification id"))
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), id, c.GetInt("user_id")); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "")
}

// Leaderboard 公开的积分排行榜
func (h *DashboardHandler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	profiles, err := h.profileService.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	leaders := make([]gin.H, 0, len(profiles))
	for i, p := range profiles {
		leaders = append(leaders, gin.H{
			"rank":    i + 1,
			"user_id": p.UserID,
			"name":    p.DisplayName(),
			"points":  p.Points,
			"level":   p.Level,
			"badges":  p.Badges,
		})
	}
	errors.HandleSuccess(c, gin.H{"leaderboard": leaders}, "")
}
