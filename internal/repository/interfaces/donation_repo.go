package interfaces

import (
	"aime-backend/internal/model"
	"context"

	"github.com/shopspring/decimal"
)

// DonationRepository 捐款仓储，查询不到记录时返回 nil, nil
type DonationRepository interface {
	Create(ctx context.Context, donation *model.Donation) error
	GetByID(ctx context.Context, id int) (*model.Donation, error)
	UpdateStatus(ctx context.Context, id int, status string) error
	ListByEmail(ctx context.Context, email string) ([]*model.Donation, error)
	// CompletedTotalsByEmail 返回已完成捐款的总额与笔数
	CompletedTotalsByEmail(ctx context.Context, email string) (decimal.Decimal, int, error)
	ListRecentCompletedByProject(ctx context.Context, projectID, limit int) ([]*model.Donation, error)
}

type ProjectRepository interface {
	GetByID(ctx context.Context, id int) (*model.Project, error)
	GetBySlug(ctx context.Context, slug string) (*model.Project, error)
	ListActive(ctx context.Context) ([]*model.Project, error)
	AddRaisedAmount(ctx context.Context, id int, delta decimal.Decimal) error
}
