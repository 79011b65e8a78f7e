package interfaces

import (
	"aime-backend/internal/model"
	"context"

	"github.com/shopspring/decimal"
)

// ImpactRepository 影响点仓储，(type, related_id, related_model) 唯一
type ImpactRepository interface {
	// Upsert 按自然键插入或更新，point.ID 回填为当前行 ID
	Upsert(ctx context.Context, point *model.ImpactPoint) error
	DeleteByKey(ctx context.Context, key model.ImpactKey) (bool, error)
	Create(ctx context.Context, point *model.ImpactPoint) error
	List(ctx context.Context) ([]*model.ImpactPoint, error)
}

// StatsRepository 站点统计使用的聚合查询
type StatsRepository interface {
	SumCompletedDonations(ctx context.Context) (decimal.Decimal, error)
	SumRecordedContributions(ctx context.Context) (decimal.Decimal, error)
	CountProfilesByRole(ctx context.Context, roles ...string) (int, error)
	CountMBCParticipantsByStatus(ctx context.Context, status string) (int, error)
	CountProjectsByStatus(ctx context.Context, status string) (int, error)
	// CountActiveEvents eventType 为空时统计全部类型
	CountActiveEvents(ctx context.Context, eventType string) (int, error)
	CountParticipationsByStatus(ctx context.Context, statuses ...string) (int, error)
	CountDistinctProfileLocations(ctx context.Context) (int, error)
	CountDistinctImpactLocations(ctx context.Context) (int, error)
	CountActiveUsers(ctx context.Context) (int, error)
	CountDistinctDonors(ctx context.Context) (int, error)
}
