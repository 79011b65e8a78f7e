package interfaces

import (
	"aime-backend/internal/model"
	"context"
	"time"
)

type EventRepository interface {
	GetByID(ctx context.Context, id int) (*model.Event, error)
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]*model.Event, error)
}

// ParticipationRepository 活动报名仓储，(user_id, event_id) 唯一
type ParticipationRepository interface {
	// GetOrCreate 已存在时用现有记录填充 participation 并返回 false
	GetOrCreate(ctx context.Context, participation *model.EventParticipation) (bool, error)
	GetByID(ctx context.Context, id int) (*model.EventParticipation, error)
	UpdateStatus(ctx context.Context, id int, status string) error
	ListByUser(ctx context.Context, userID int) ([]*model.EventParticipation, error)
	CountActiveByUser(ctx context.Context, userID int) (int, error)
}

type ChallengeRepository interface {
	GetByID(ctx context.Context, id int) (*model.MBCChallenge, error)
	// ListUpcoming 进行中且未开始的挑战，按日期升序
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]*model.MBCChallenge, error)
	CountConfirmed(ctx context.Context, challengeID int) (int, error)
	FindParticipant(ctx context.Context, challengeID int, email string) (*model.MBCParticipant, error)
	CreateParticipant(ctx context.Context, participant *model.MBCParticipant) error
	GetParticipant(ctx context.Context, id int) (*model.MBCParticipant, error)
	UpdateParticipantStatus(ctx context.Context, id int, status string) error
	CountConfirmedByEmail(ctx context.Context, email string) (int, error)
}
