package impact

import (
	"aime-backend/internal/errors"
	"aime-backend/internal/model"
	"aime-backend/internal/service"
	"aime-backend/internal/util"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ImpactServiceInterface 影响地图处理器依赖的服务
type ImpactServiceInterface interface {
	ListMapPoints(ctx context.Context) ([]model.MapPoint, error)
	CreateImpactPoint(ctx context.Context, in service.CreateImpactPointInput) (*model.ImpactPoint, error)
}

type ImpactHandler struct {
	impactService ImpactServiceInterface
}

func NewImpactHandler(impactService ImpactServiceInterface) *ImpactHandler {
	return &ImpactHandler{impactService}
}

// GetImpactData 返回地图上的全部影响点
func (h *ImpactHandler) GetImpactData(c *gin.Context) {
	points, err := h.impactService.ListMapPoints(c.Request.Context())
	if err != nil {
		util.Logger.Error("获取影响地图数据失败", zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   points,
	})
}

// CreateImpactPoint 员工手工添加影响点
func (h *ImpactHandler) CreateImpactPoint(c *gin.Context) {
	var input service.CreateImpactPointInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.Logger.Warn("创建影响点失败，无效的请求数据", zap.Error(err))
		h.fail(c, errors.Wrap(errors.ErrValidation, "invalid impact point", err))
		return
	}

	point, err := h.impactService.CreateImpactPoint(c.Request.Context(), input)
	if err != nil {
		h.fail(c, err)
		return
	}

	util.Logger.Info("影响点已创建", zap.Int("id", point.ID), zap.String("type", point.Type))
	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Ajouté",
		"data":    point.ToMapPoint(),
	})
}

func (h *ImpactHandler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(errors.StatusOf(errors.CodeOf(err)), gin.H{
		"status":  "error",
		"message": err.Error(),
	})
}
