package staff

import (
	"aime-backend/internal/errors"
	"aime-backend/internal/service"
	"aime-backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StaffHandler 员工缴费的录入、验证与查询
type StaffHandler struct {
	contributionService *service.ContributionService
}

func NewStaffHandler(contributionService *service.ContributionService) *StaffHandler {
	return &StaffHandler{contributionService}
}

func (h *StaffHandler) CreateContribution(c *gin.Context) {
	var input service.CreateContributionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.Logger.Warn("录入员工缴费失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "invalid contribution", err))
		return
	}

	contribution, err := h.contributionService.CreateContribution(c.Request.Context(), input)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleCreated(c, contribution, "")
}

// ValidateContribution 当前员工作为验证人确认缴费
func (h *StaffHandler) ValidateContribution(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "invalid contribution id"))
		return
	}

	contribution, err := h.contributionService.ValidateContribution(c.Request.Context(), id, c.GetInt("user_id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, contribution, "Contribution validée")
}

func (h *StaffHandler) ListContributions(c *gin.Context) {
	staffID := 0
	if raw := c.Query("staff_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			errors.HandleError(c, errors.New(errors.ErrBadRequest, "invalid staff_id"))
			return
		}
		staffID = id
	}

	contributions, err := h.contributionService.ListContributions(c.Request.Context(), staffID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"contributions": contributions}, "")
}
