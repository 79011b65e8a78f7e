package interfaces

import "context"

// Store 聚合所有仓储，WithinTx 内的仓储共享同一事务
type Store interface {
	Donations() DonationRepository
	Projects() ProjectRepository
	Events() EventRepository
	Participations() ParticipationRepository
	Challenges() ChallengeRepository
	Contributions() ContributionRepository
	Profiles() ProfileRepository
	Activities() ActivityRepository
	Notifications() NotificationRepository
	Impacts() ImpactRepository
	Stats() StatsRepository

	// WithinTx 在事务中执行 fn，fn 返回错误时回滚
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
