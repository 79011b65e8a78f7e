package interfaces

import (
	"aime-backend/internal/model"
	"context"
)

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID int) (*model.UserProfile, error)
	GetByEmail(ctx context.Context, email string) (*model.UserProfile, error)
	Create(ctx context.Context, profile *model.UserProfile) error
	// UpdateGamification 保存积分、等级与徽章
	UpdateGamification(ctx context.Context, profile *model.UserProfile) error
	// UpdateDetails 保存电话、角色、坐标与邮件通知偏好
	UpdateDetails(ctx context.Context, profile *model.UserProfile) error
	CountWithMorePoints(ctx context.Context, points int) (int, error)
	Leaderboard(ctx context.Context, limit int) ([]*model.UserProfile, error)
}

type ActivityRepository interface {
	Create(ctx context.Context, activity *model.UserActivity) error
	ListRecent(ctx context.Context, userID, limit int) ([]*model.UserActivity, error)
}

// NotificationRepository 通知仓储，同一用户下去重键唯一
type NotificationRepository interface {
	// GetOrCreate 已存在相同通知时返回 false
	GetOrCreate(ctx context.Context, notification *model.UserNotification) (bool, error)
	ListByUser(ctx context.Context, userID, limit int) ([]*model.UserNotification, error)
	CountUnread(ctx context.Context, userID int) (int, error)
	MarkRead(ctx context.Context, id, userID int) (bool, error)
}
