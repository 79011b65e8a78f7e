package service

import (
	"aime-backend/internal/errors"
	"aime-backend/internal/metrics"
	"aime-backend/internal/model"
	"aime-backend/internal/repository/interfaces"
	"aime-backend/internal/util"
	"context"
	"time"

	"go.uber.org/zap"
)

type StatsService struct {
	store   interfaces.Store
	metrics *metrics.Metrics
}

func NewStatsService(store interfaces.Store, m *metrics.Metrics) *StatsService {
	return &StatsService{
		store:   store,
		metrics: m,
	}
}

// GetSiteStatistics 计算站点统计快照。任一查询失败都返回 ErrDatabase，由调用方决定降级方式。
func (s *StatsService) GetSiteStatistics(ctx context.Context) (stats *model.SiteStats, err error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordStats(time.Since(start), err)
	}()

	repo := s.store.Stats()
	stats = &model.SiteStats{}

	donations, err := repo.SumCompletedDonations(ctx)
	if err != nil {
		return nil, statsError("total_donations", err)
	}
	stats.TotalDonations = donations.IntPart()

	children, err := repo.CountProfilesByRole(ctx, model.RoleChild)
	if err != nil {
		return nil, statsError("total_children_helped", err)
	}
	// 参与者与儿童资料可能是同一人，不去重
	if stats.MBCParticipants, err = repo.CountMBCParticipantsByStatus(ctx, model.MBCConfirmed); err != nil {
		return nil, statsError("mbc_participants", err)
	}
	stats.TotalChildrenHelped = children + stats.MBCParticipants

	if stats.ActiveProjects, err = repo.CountProjectsByStatus(ctx, model.ProjectActive); err != nil {
		return nil, statsError("active_projects", err)
	}
	if stats.TotalEvents, err = repo.CountActiveEvents(ctx, ""); err != nil {
		return nil, statsError("total_events", err)
	}
	if stats.FormationsDispensed, err = repo.CountActiveEvents(ctx, model.EventWorkshop); err != nil {
		return nil, statsError("formations_dispensed", err)
	}
	if stats.FamiliesSupported, err = repo.CountProfilesByRole(ctx, model.RoleParent, model.RoleMember); err != nil {
		return nil, statsError("families_supported", err)
	}

	profileLocations, err := repo.CountDistinctProfileLocations(ctx)
	if err != nil {
		return nil, statsError("quartiers_impacted", err)
	}
	impactLocations, err := repo.CountDistinctImpactLocations(ctx)
	if err != nil {
		return nil, statsError("quartiers_impacted", err)
	}
	stats.QuartiersImpacted = profileLocations + impactLocations
	if stats.QuartiersImpacted < model.QuartiersFloor {
		stats.QuartiersImpacted = model.QuartiersFloor
	}

	contributions, err := repo.SumRecordedContributions(ctx)
	if err != nil {
		return nil, statsError("staff_contributions", err)
	}
	stats.StaffContributions = contributions.IntPart()

	if stats.EventParticipations, err = repo.CountParticipationsByStatus(ctx,
		model.ParticipationConfirmed, model.ParticipationAttended); err != nil {
		return nil, statsError("event_participations", err)
	}

	if stats.TotalUsers, err = repo.CountActiveUsers(ctx); err != nil {
		return nil, statsError("total_users", err)
	}
	if stats.TotalVolunteers, err = repo.CountProfilesByRole(ctx, model.RoleVolunteer); err != nil {
		return nil, statsError("total_volunteers", err)
	}
	if stats.TotalDonors, err = repo.CountDistinctDonors(ctx); err != nil {
		return nil, statsError("total_donors", err)
	}

	return stats, nil
}

func statsError(field string, err error) error {
	util.Logger.Error("统计查询失败", zap.Error(err), zap.String("field", field))
	return errors.Wrap(errors.ErrDatabase, "failed to compute "+field, err)
}
