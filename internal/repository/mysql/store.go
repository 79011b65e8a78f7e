package mysql

import (
	"aime-backend/internal/repository/interfaces"
	"aime-backend/internal/util"
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// dbtx 由 *sql.DB 与 *sql.Tx 共同实现
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Store 基于 MySQL 的仓储集合
type Store struct {
	db   *sql.DB
	q    dbtx
	inTx bool
}

// NewStore 创建一个新的 Store 实例
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, q: db}
}

func (s *Store) Donations() interfaces.DonationRepository {
	return &donationRepository{q: s.q}
}

func (s *Store) Projects() interfaces.ProjectRepository {
	return &projectRepository{q: s.q}
}

func (s *Store) Events() interfaces.EventRepository {
	return &eventRepository{q: s.q}
}

func (s *Store) Participations() interfaces.ParticipationRepository {
	return &participationRepository{q: s.q}
}

func (s *Store) Challenges() interfaces.ChallengeRepository {
	return &challengeRepository{q: s.q}
}

func (s *Store) Contributions() interfaces.ContributionRepository {
	return &contributionRepository{q: s.q}
}

func (s *Store) Profiles() interfaces.ProfileRepository {
	return &profileRepository{q: s.q}
}

func (s *Store) Activities() interfaces.ActivityRepository {
	return &activityRepository{q: s.q}
}

func (s *Store) Notifications() interfaces.NotificationRepository {
	return &notificationRepository{q: s.q}
}

func (s *Store) Impacts() interfaces.ImpactRepository {
	return &impactRepository{q: s.q}
}

func (s *Store) Stats() interfaces.StatsRepository {
	return &statsRepository{q: s.q}
}

// WithinTx 在事务中执行 fn，已处于事务中时直接复用
func (s *Store) WithinTx(ctx context.Context, fn func(tx interfaces.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		util.Logger.Error("开始事务失败", zap.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Store{db: s.db, q: tx, inTx: true}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		util.Logger.Error("提交事务失败", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

var _ interfaces.Store = (*Store)(nil)
