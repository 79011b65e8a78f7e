package service

import (
	"aime-backend/internal/errors"
	"aime-backend/internal/metrics"
	"aime-backend/internal/model"
	"aime-backend/internal/repository/interfaces"
	"aime-backend/internal/util"
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ImpactSynchronizer 维护 impact_points 投影。
// 每个写路径在自己的事务中显式调用对应的 Sync 方法，来源未满足条件时不做任何写入。
type ImpactSynchronizer struct {
	notifications       *NotificationService
	retractOnRegression bool
	metrics             *metrics.Metrics
}

// NewImpactSynchronizer 创建同步器。retractOnRegression 为 true 时，
// 来源离开可计数状态会删除对应影响点；否则保留历史记录。
func NewImpactSynchronizer(notifications *NotificationService, retractOnRegression bool, m *metrics.Metrics) *ImpactSynchronizer {
	return &ImpactSynchronizer{
		notifications:       notifications,
		retractOnRegression: retractOnRegression,
		metrics:             m,
	}
}

// SyncDonation 已完成的捐款写入一条 donation 影响点
func (s *ImpactSynchronizer) SyncDonation(ctx context.Context, tx interfaces.Store, d *model.Donation) (bool, error) {
	key := model.ImpactKey{Type: model.ImpactDonation, RelatedID: d.ID, RelatedModel: model.RelatedDonation}
	if !d.IsCompleted() {
		return false, s.regress(ctx, tx, key, d.Status)
	}

	description := d.Message
	if description == "" {
		description = fmt.Sprintf("Don de %s", d.DonorName)
	}

	return true, s.upsert(ctx, tx, &model.ImpactPoint{
		Type:         key.Type,
		RelatedID:    &d.ID,
		RelatedModel: key.RelatedModel,
		Description:  description,
		Value:        decimal.NewNullDecimal(d.Amount),
		Status:       d.Status,
	})
}

// SyncParticipation 已确认或已出席的报名写入一条 participation 影响点
func (s *ImpactSynchronizer) SyncParticipation(ctx context.Context, tx interfaces.Store, p *model.EventParticipation) (bool, error) {
	key := model.ImpactKey{Type: model.ImpactParticipation, RelatedID: p.ID, RelatedModel: model.RelatedParticipation}
	if !p.IsActive() {
		return false, s.regress(ctx, tx, key, p.Status)
	}

	title := p.EventTitle
	if title == "" {
		event, err := tx.Events().GetByID(ctx, p.EventID)
		if err != nil {
			util.Logger.Error("获取活动信息失败", zap.Error(err), zap.Int("event_id", p.EventID))
			return false, errors.Wrap(errors.ErrDatabase, "failed to load event", err)
		}
		if event != nil {
			title = event.Title
		}
	}

	return true, s.upsert(ctx, tx, &model.ImpactPoint{
		Type:         key.Type,
		RelatedID:    &p.ID,
		RelatedModel: key.RelatedModel,
		Description:  fmt.Sprintf("Participation à %s", title),
		Status:       p.Status,
	})
}

// SyncContribution 已入账并验证的员工缴费写入一条 contribution 影响点，并通知缴费人与验证人
func (s *ImpactSynchronizer) SyncContribution(ctx context.Context, tx interfaces.Store, c *model.StaffContribution) (bool, error) {
	key := model.ImpactKey{Type: model.ImpactContribution, RelatedID: c.ID, RelatedModel: model.RelatedStaffContribution}
	if !c.IsValidated() {
		return false, s.regress(ctx, tx, key, "unvalidated")
	}

	description := c.Object
	if description == "" {
		description = fmt.Sprintf("Contribution staff %s", c.Month)
	}

	err := s.upsert(ctx, tx, &model.ImpactPoint{
		Type:         key.Type,
		RelatedID:    &c.ID,
		RelatedModel: key.RelatedModel,
		Description:  description,
		Value:        decimal.NewNullDecimal(c.Amount),
		Status:       model.DonationCompleted,
	})
	if err != nil {
		return false, err
	}

	if s.notifications != nil {
		if err := s.notifications.NotifyContributionValidated(ctx, tx, c); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (s *ImpactSynchronizer) upsert(ctx context.Context, tx interfaces.Store, point *model.ImpactPoint) error {
	if err := tx.Impacts().Upsert(ctx, point); err != nil {
		s.metrics.RecordImpactSync(point.Type, metrics.OutcomeFailed)
		util.Logger.Error("同步影响点失败",
			zap.Error(err),
			zap.String("type", point.Type),
			zap.Intp("related_id", point.RelatedID))
		return errors.Wrap(errors.ErrDatabase, "failed to sync impact point", err)
	}

	s.metrics.RecordImpactSync(point.Type, metrics.OutcomeUpserted)
	util.Logger.Debug("影响点已同步",
		zap.Int("impact_id", point.ID),
		zap.String("type", point.Type),
		zap.Intp("related_id", point.RelatedID))
	return nil
}

// regress 处理来源未满足条件的情况，默认保留已有影响点
func (s *ImpactSynchronizer) regress(ctx context.Context, tx interfaces.Store, key model.ImpactKey, status string) error {
	if !s.retractOnRegression {
		s.metrics.RecordImpactSync(key.Type, metrics.OutcomeSkipped)
		return nil
	}

	deleted, err := tx.Impacts().DeleteByKey(ctx, key)
	if err != nil {
		s.metrics.RecordImpactSync(key.Type, metrics.OutcomeFailed)
		util.Logger.Error("撤回影响点失败", zap.Error(err), zap.String("type", key.Type), zap.Int("related_id", key.RelatedID))
		return errors.Wrap(errors.ErrDatabase, "failed to retract impact point", err)
	}
	if !deleted {
		s.metrics.RecordImpactSync(key.Type, metrics.OutcomeSkipped)
		return nil
	}

	s.metrics.RecordImpactSync(key.Type, metrics.OutcomeRetracted)
	util.Logger.Info("来源已离开可计数状态，撤回影响点",
		zap.String("type", key.Type),
		zap.Int("related_id", key.RelatedID),
		zap.String("status", status))
	return nil
}
