package service

import (
	"aime-backend/internal/errors"
	"aime-backend/internal/metrics"
	"aime-backend/internal/repository/interfaces"
	stderrors "errors"
)

// Services 汇总 HTTP 层与命令行使用的全部服务
type Services struct {
	Notifications *NotificationService
	Sync          *ImpactSynchronizer
	Profiles      *ProfileService
	Donations     *DonationService
	Participation *ParticipationService
	Challenges    *ChallengeService
	Contributions *ContributionService
	Stats         *StatsService
	Impacts       *ImpactService
	Catalog       *CatalogService
}

// NewServices 按依赖顺序构建服务，mailer 与 m 均可为 nil
func NewServices(store interfaces.Store, mailer Mailer, retractOnRegression bool, m *metrics.Metrics) *Services {
	notifications := NewNotificationService(store, mailer)
	sync := NewImpactSynchronizer(notifications, retractOnRegression, m)
	profiles := NewProfileService(store, notifications)

	return &Services{
		Notifications: notifications,
		Sync:          sync,
		Profiles:      profiles,
		Donations:     NewDonationService(store, sync),
		Participation: NewParticipationService(store, sync, profiles, notifications),
		Challenges:    NewChallengeService(store, profiles, notifications),
		Contributions: NewContributionService(store, sync),
		Stats:         NewStatsService(store, m),
		Impacts:       NewImpactService(store),
		Catalog:       NewCatalogService(store),
	}
}

// wrapWriteError 引用的用户或记录不存在时返回 ErrResourceNotFound，其余视为数据库错误
func wrapWriteError(message string, err error) error {
	if stderrors.Is(err, interfaces.ErrMissingReference) {
		return errors.Wrap(errors.ErrResourceNotFound, message, err)
	}
	return errors.Wrap(errors.ErrDatabase, message, err)
}
