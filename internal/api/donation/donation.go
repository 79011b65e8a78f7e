package donation

import (
	"aime-backend/internal/errors"
	"aime-backend/internal/service"
	"aime-backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DonationHandler 处理捐款相关的HTTP请求
type DonationHandler struct {
	donationService *service.DonationService
}

func NewDonationHandler(donationService *service.DonationService) *DonationHandler {
	return &DonationHandler{donationService}
}

// CreateDonation 记录一笔捐款，状态由支付回调或员工后续更新
func (h *DonationHandler) CreateDonation(c *gin.Context) {
	var input service.CreateDonationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.Logger.Warn("创建捐款失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "invalid donation", err))
		return
	}

	donation, err := h.donationService.CreateDonation(c.Request.Context(), input)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleCreated(c, donation, "Merci pour votre don")
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateDonationStatus 员工更新捐款状态
func (h *DonationHandler) UpdateDonationStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "invalid donation id"))
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "status is required", err))
		return
	}

	donation, err := h.donationService.UpdateDonationStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	util.Logger.Info("捐款状态已更新",
		zap.Int("donation_id", id),
		zap.String("status", donation.Status),
		zap.Int("operator_id", c.GetInt("user_id")))
	errors.HandleSuccess(c, donation, "")
}

// ListDonations 按捐款人邮箱查询
func (h *DonationHandler) ListDonations(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		errors.HandleError(c, errors.New(errors.ErrValidation, "email is required"))
		return
	}

	donations, err := h.donationService.ListDonationsByEmail(c.Request.Context(), email)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"donations": donations}, "")
}
