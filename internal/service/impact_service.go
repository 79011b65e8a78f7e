package service

import (
	"aime-backend/internal/errors"
	"aime-backend/internal/model"
	"aime-backend/internal/repository/interfaces"
	"aime-backend/internal/util"
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateImpactPointInput 手工创建影响点的参数
type CreateImpactPointInput struct {
	Type        string           `json:"type" binding:"required,oneof=donation event participation contribution project other"`
	Latitude    *float64         `json:"latitude" binding:"omitempty,latitude"`
	Longitude   *float64         `json:"longitude" binding:"omitempty,longitude"`
	Description string           `json:"description" binding:"max=2000"`
	Value       *decimal.Decimal `json:"value"`
	Status      string           `json:"status" binding:"max=30"`
}

// ImpactService 影响地图的数据读取与手工维护
type ImpactService struct {
	store interfaces.Store
}

func NewImpactService(store interfaces.Store) *ImpactService {
	return &ImpactService{store: store}
}

// ListMapPoints 返回地图接口使用的全部影响点
func (s *ImpactService) ListMapPoints(ctx context.Context) ([]model.MapPoint, error) {
	points, err := s.store.Impacts().List(ctx)
	if err != nil {
		util.Logger.Error("获取影响点失败", zap.Error(err))
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list impact points", err)
	}

	result := make([]model.MapPoint, 0, len(points))
	for _, p := range points {
		result = append(result, p.ToMapPoint())
	}
	return result, nil
}

// CreateImpactPoint 创建不关联来源记录的影响点
func (s *ImpactService) CreateImpactPoint(ctx context.Context, in CreateImpactPointInput) (*model.ImpactPoint, error) {
	if !model.ValidImpactType(in.Type) {
		return nil, errors.New(errors.ErrValidation, "invalid impact type")
	}
	if in.Latitude != nil && (*in.Latitude < -90 || *in.Latitude > 90) {
		return nil, errors.New(errors.ErrValidation, "latitude must be between -90 and 90")
	}
	if in.Longitude != nil && (*in.Longitude < -180 || *in.Longitude > 180) {
		return nil, errors.New(errors.ErrValidation, "longitude must be between -180 and 180")
	}

	point := &model.ImpactPoint{
		Type:        in.Type,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Description: strings.TrimSpace(in.Description),
		Status:      in.Status,
	}
	if in.Value != nil {
		point.Value = decimal.NewNullDecimal(*in.Value)
	}

	if err := s.store.Impacts().Create(ctx, point); err != nil {
		util.Logger.Error("创建影响点失败", zap.Error(err), zap.String("type", in.Type))
		return nil, errors.Wrap(errors.ErrDatabase, "failed to create impact point", err)
	}
	return point, nil
}
