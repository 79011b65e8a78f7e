package interfaces

import (
	"aime-backend/internal/model"
	"context"
	"time"
)

type ContributionRepository interface {
	Create(ctx context.Context, contribution *model.StaffContribution) error
	GetByID(ctx context.Context, id int) (*model.StaffContribution, error)
	MarkRecorded(ctx context.Context, id int, validatedAt time.Time, validatedBy int) error
	// List staffID 为 0 时返回全部
	List(ctx context.Context, staffID int) ([]*model.StaffContribution, error)
}
