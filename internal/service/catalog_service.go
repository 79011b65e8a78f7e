package service

import (
	"aime-backend/internal/errors"
	"aime-backend/internal/model"
	"aime-backend/internal/repository/interfaces"
	"aime-backend/internal/util"
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	defaultCatalogLimit    = 12
	maxCatalogLimit        = 100
	projectRecentDonations = 5
)

// ProjectDetail 项目详情及最近的公开捐款
type ProjectDetail struct {
	Project         *model.Project         `json:"project"`
	Progress        float64                `json:"progress"`
	RecentDonations []model.PublicDonation `json:"recent_donations"`
}

// ChallengeDetail 骑行挑战详情与剩余名额
type ChallengeDetail struct {
	Challenge *model.MBCChallenge `json:"challenge"`
	Confirmed int                 `json:"confirmed_participants"`
	SpotsLeft int                 `json:"spots_left"`
}

// CatalogService 公开的项目、活动与骑行挑战查询
type CatalogService struct {
	store interfaces.Store
}

func NewCatalogService(store interfaces.Store) *CatalogService {
	return &CatalogService{store: store}
}

func catalogLimit(limit int) int {
	if limit <= 0 || limit > maxCatalogLimit {
		return defaultCatalogLimit
	}
	return limit
}

// ListProjects 进行中的项目，最新的在前
func (s *CatalogService) ListProjects(ctx context.Context) ([]*model.Project, error) {
	projects, err := s.store.Projects().ListActive(ctx)
	if err != nil {
		util.Logger.Error("获取项目列表失败", zap.Error(err))
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list projects", err)
	}
	if projects == nil {
		projects = []*model.Project{}
	}
	return projects, nil
}

func (s *CatalogService) GetProject(ctx context.Context, slug string) (*ProjectDetail, error) {
	project, err := s.store.Projects().GetBySlug(ctx, slug)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load project", err)
	}
	if project == nil {
		return nil, errors.New(errors.ErrResourceNotFound, "project not found")
	}

	donations, err := s.store.Donations().ListRecentCompletedByProject(ctx, project.ID, projectRecentDonations)
	if err != nil {
		util.Logger.Error("获取项目捐款失败", zap.Error(err), zap.Int("project_id", project.ID))
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load project donations", err)
	}

	detail := &ProjectDetail{
		Project:         project,
		Progress:        project.Progress(),
		RecentDonations: make([]model.PublicDonation, 0, len(donations)),
	}
	for _, d := range donations {
		detail.RecentDonations = append(detail.RecentDonations, d.Public())
	}
	return detail, nil
}

// ListEvents 未开始的公开活动，按日期升序
func (s *CatalogService) ListEvents(ctx context.Context, limit int) ([]*model.Event, error) {
	events, err := s.store.Events().ListUpcoming(ctx, time.Now(), catalogLimit(limit))
	if err != nil {
		util.Logger.Error("获取活动列表失败", zap.Error(err))
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list events", err)
	}
	if events == nil {
		events = []*model.Event{}
	}
	return events, nil
}

// GetEvent 已停用的活动视为不存在
func (s *CatalogService) GetEvent(ctx context.Context, id int) (*model.Event, error) {
	event, err := s.store.Events().GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load event", err)
	}
	if event == nil || !event.IsActive {
		return nil, errors.New(errors.ErrResourceNotFound, "event not found")
	}
	return event, nil
}

func (s *CatalogService) ListChallenges(ctx context.Context, limit int) ([]*model.MBCChallenge, error) {
	challenges, err := s.store.Challenges().ListUpcoming(ctx, time.Now(), catalogLimit(limit))
	if err != nil {
		util.Logger.Error("获取骑行挑战列表失败", zap.Error(err))
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list challenges", err)
	}
	if challenges == nil {
		challenges = []*model.MBCChallenge{}
	}
	return challenges, nil
}

func (s *CatalogService) GetChallenge(ctx context.Context, id int) (*ChallengeDetail, error) {
	challenge, err := s.store.Challenges().GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load challenge", err)
	}
	if challenge == nil || !challenge.IsActive {
		return nil, errors.New(errors.ErrResourceNotFound, "challenge not found")
	}

	confirmed, err := s.store.Challenges().CountConfirmed(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to count participants", err)
	}
	spots := challenge.MaxParticipants - confirmed
	if spots < 0 {
		spots = 0
	}
	return &ChallengeDetail{Challenge: challenge, Confirmed: confirmed, SpotsLeft: spots}, nil
}
