package user

import (
	"aime-backend/internal/errors"
	"aime-backend/internal/model"
	"aime-backend/internal/service"
	"aime-backend/internal/util"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService}
}

type ensureProfileRequest struct {
	Username  string   `json:"username" binding:"required,max=150"`
	FullName  string   `json:"full_name" binding:"max=300"`
	Email     string   `json:"email" binding:"required,email,max=254"`
	Phone     string   `json:"phone" binding:"max=20"`
	Latitude  *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" binding:"omitempty,longitude"`
}

// EnsureProfile 首次登录后创建用户资料，已存在时直接返回
func (h *ProfileHandler) EnsureProfile(c *gin.Context) {
	var req ensureProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Logger.Warn("创建用户资料失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "invalid profile", err))
		return
	}

	profile, created, err := h.profileService.EnsureProfile(c.Request.Context(), &model.UserProfile{
		UserID:    c.GetInt("user_id"),
		Username:  req.Username,
		FullName:  strings.TrimSpace(req.FullName),
		Email:     strings.ToLower(req.Email),
		Phone:     req.Phone,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	if created {
		errors.HandleCreated(c, gin.H{"profile": profile}, "Bienvenue chez AIME !")
		return
	}
	errors.HandleSuccess(c, gin.H{"profile": profile}, "")
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.profileService.GetProfile(c.Request.Context(), c.GetInt("user_id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"profile": profile,
	}, "")
}

// UpdateProfile 修改电话、角色与坐标
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req service.UpdateProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Logger.Warn("更新用户资料失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "invalid profile", err))
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), c.GetInt("user_id"), req)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"profile": profile}, "Profil mis à jour avec succès!")
}

func (h *ProfileHandler) UpdatePreferences(c *gin.Context) {
	var req service.PreferencesInput
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "invalid preferences", err))
		return
	}

	profile, err := h.profileService.UpdatePreferences(c.Request.Context(), c.GetInt("user_id"), req)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"profile": profile}, "Préférences mises à jour!")
}

type awardRequest struct {
	Points int    `json:"points" binding:"min=0,max=10000"`
	Badge  string `json:"badge" binding:"omitempty,max=50"`
}

// Award 员工为用户发放积分或徽章
func (h *ProfileHandler) Award(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "invalid user id"))
		return
	}

	var req awardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "invalid award", err))
		return
	}

	var badges []string
	if req.Badge != "" {
		badges = append(badges, req.Badge)
	}
	profile, err := h.profileService.Award(c.Request.Context(), userID, req.Points, badges...)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"profile": profile}, "")
}
