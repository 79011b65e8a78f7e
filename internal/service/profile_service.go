package service

import (
	"aime-backend/internal/errors"
	"aime-backend/internal/model"
	"aime-backend/internal/repository/interfaces"
	"aime-backend/internal/util"
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	welcomePoints           = 50
	defaultLeaderboardLimit = 10
)

// ProfileService 用户资料、积分徽章与仪表盘
type ProfileService struct {
	store         interfaces.Store
	notifications *NotificationService
}

func NewProfileService(store interfaces.Store, notifications *NotificationService) *ProfileService {
	return &ProfileService{
		store:         store,
		notifications: notifications,
	}
}

// EnsureProfile 用户没有资料时创建，并发放欢迎积分、徽章、动态与通知。返回是否新建。
func (s *ProfileService) EnsureProfile(ctx context.Context, seed *model.UserProfile) (*model.UserProfile, bool, error) {
	var (
		profile *model.UserProfile
		created bool
	)
	err := s.store.WithinTx(ctx, func(tx interfaces.Store) error {
		existing, err := tx.Profiles().GetByUserID(ctx, seed.UserID)
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to load profile", err)
		}
		if existing != nil {
			profile = existing
			return nil
		}

		fresh := *seed
		if fresh.Role == "" {
			fresh.Role = model.RoleMember
		}
		fresh.IsActive = true
		fresh.EmailNotifications = true
		fresh.Points = 0
		fresh.Badges = nil
		fresh.AddPoints(welcomePoints)
		fresh.AddBadge(model.BadgeNewMember)

		if err := tx.Profiles().Create(ctx, &fresh); err != nil {
			return wrapWriteError("failed to create profile", err)
		}
		if err := s.recordActivity(ctx, tx, fresh.UserID, model.ActivityRegistration, "Inscription sur la plateforme AIME"); err != nil {
			return err
		}

		firstName := fresh.Username
		if fields := strings.Fields(fresh.FullName); len(fields) > 0 {
			firstName = fields[0]
		}
		_, err = s.notifications.Notify(ctx, tx, &model.UserNotification{
			UserID: fresh.UserID,
			Title:  "Bienvenue chez AIME !",
			Message: fmt.Sprintf("Bonjour %s, merci de rejoindre notre communauté. "+
				"Découvrez votre tableau de bord et nos projets.", firstName),
			NotificationType: model.NotificationSuccess,
		})
		if err != nil {
			return err
		}

		// 重新读取以获得用户表中的字段
		profile, err = tx.Profiles().GetByUserID(ctx, fresh.UserID)
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to load profile", err)
		}
		created = true
		return nil
	})
	if err != nil {
		util.Logger.Error("初始化用户资料失败", zap.Error(err), zap.Int("user_id", seed.UserID))
		return nil, false, err
	}

	if created {
		util.Logger.Info("新用户资料已创建", zap.Int("user_id", seed.UserID))
	}
	return profile, created, nil
}

// reward 在 tx 中为用户增加积分并授予徽章，用户没有资料时返回 nil
func (s *ProfileService) reward(ctx context.Context, tx interfaces.Store, userID, points int, badges ...string) (*model.UserProfile, error) {
	profile, err := tx.Profiles().GetByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load profile", err)
	}
	if profile == nil {
		return nil, nil
	}

	profile.AddPoints(points)
	for _, badge := range badges {
		profile.AddBadge(badge)
	}
	if err := tx.Profiles().UpdateGamification(ctx, profile); err != nil {
		util.Logger.Error("更新积分失败", zap.Error(err), zap.Int("user_id", userID))
		return nil, errors.Wrap(errors.ErrDatabase, "failed to update points", err)
	}
	return profile, nil
}

// Award 由员工为用户增加积分或授予徽章，已拥有的徽章不重复添加
func (s *ProfileService) Award(ctx context.Context, userID, points int, badges ...string) (*model.UserProfile, error) {
	if points < 0 {
		return nil, errors.New(errors.ErrValidation, "points must not be negative")
	}
	if points == 0 && len(badges) == 0 {
		return nil, errors.New(errors.ErrValidation, "nothing to award")
	}

	var profile *model.UserProfile
	err := s.store.WithinTx(ctx, func(tx interfaces.Store) error {
		var err error
		profile, err = s.reward(ctx, tx, userID, points, badges...)
		if err != nil {
			return err
		}
		if profile == nil {
			return errors.New(errors.ErrResourceNotFound, "profile not found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	util.Logger.Info("已发放积分或徽章",
		zap.Int("user_id", userID),
		zap.Int("points", points),
		zap.Strings("badges", badges))
	return profile, nil
}

// UpdateProfileInput 可由用户修改的资料字段，nil 表示保持不变
type UpdateProfileInput struct {
	Phone     *string  `json:"phone" binding:"omitempty,max=20"`
	Role      *string  `json:"role" binding:"omitempty,max=20"`
	Latitude  *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" binding:"omitempty,longitude"`
}

func (in UpdateProfileInput) empty() bool {
	return in.Phone == nil && in.Role == nil && in.Latitude == nil && in.Longitude == nil
}

// UpdateProfile 修改电话、角色与坐标，并记录 profile_updated 动态
func (s *ProfileService) UpdateProfile(ctx context.Context, userID int, in UpdateProfileInput) (*model.UserProfile, error) {
	if in.empty() {
		return nil, errors.New(errors.ErrValidation, "no profile fields to update")
	}
	if in.Role != nil && !model.SelfAssignableRole(*in.Role) {
		return nil, errors.New(errors.ErrValidation, "role cannot be selected")
	}

	return s.updateDetails(ctx, userID, "Profil mis à jour", func(p *model.UserProfile) {
		if in.Phone != nil {
			p.Phone = strings.TrimSpace(*in.Phone)
		}
		if in.Role != nil {
			p.Role = *in.Role
		}
		if in.Latitude != nil {
			p.Latitude = in.Latitude
		}
		if in.Longitude != nil {
			p.Longitude = in.Longitude
		}
	})
}

// PreferencesInput 通知偏好
type PreferencesInput struct {
	EmailNotifications *bool `json:"email_notifications" binding:"required"`
}

// UpdatePreferences 修改邮件通知开关
func (s *ProfileService) UpdatePreferences(ctx context.Context, userID int, in PreferencesInput) (*model.UserProfile, error) {
	if in.EmailNotifications == nil {
		return nil, errors.New(errors.ErrValidation, "email_notifications is required")
	}

	return s.updateDetails(ctx, userID, "Préférences mises à jour", func(p *model.UserProfile) {
		p.EmailNotifications = *in.EmailNotifications
	})
}

func (s *ProfileService) updateDetails(ctx context.Context, userID int, description string, apply func(*model.UserProfile)) (*model.UserProfile, error) {
	var profile *model.UserProfile
	err := s.store.WithinTx(ctx, func(tx interfaces.Store) error {
		var err error
		profile, err = tx.Profiles().GetByUserID(ctx, userID)
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to load profile", err)
		}
		if profile == nil {
			return errors.New(errors.ErrResourceNotFound, "profile not found")
		}

		apply(profile)
		if err := tx.Profiles().UpdateDetails(ctx, profile); err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to update profile", err)
		}
		return s.recordActivity(ctx, tx, userID, model.ActivityProfileUpdated, description)
	})
	if err != nil {
		util.Logger.Error("更新用户资料失败", zap.Error(err), zap.Int("user_id", userID))
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) GetProfile(ctx context.Context, userID int) (*model.UserProfile, error) {
	profile, err := s.store.Profiles().GetByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load profile", err)
	}
	if profile == nil {
		return nil, errors.New(errors.ErrResourceNotFound, "profile not found")
	}
	return profile, nil
}

// GetDashboard 汇总用户仪表盘数据，排名为积分更高的用户数加一
func (s *ProfileService) GetDashboard(ctx context.Context, userID int) (*model.Dashboard, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	dashboard := &model.Dashboard{Profile: profile}

	total, count, err := s.store.Donations().CompletedTotalsByEmail(ctx, profile.Email)
	if err != nil {
		return nil, s.dashboardError(userID, "donations", err)
	}
	dashboard.TotalDonations = total.IntPart()
	dashboard.DonationsCount = count

	if dashboard.EventsParticipated, err = s.store.Participations().CountActiveByUser(ctx, userID); err != nil {
		return nil, s.dashboardError(userID, "participations", err)
	}
	if dashboard.ChallengesCompleted, err = s.store.Challenges().CountConfirmedByEmail(ctx, profile.Email); err != nil {
		return nil, s.dashboardError(userID, "challenges", err)
	}

	higher, err := s.store.Profiles().CountWithMorePoints(ctx, profile.Points)
	if err != nil {
		return nil, s.dashboardError(userID, "ranking", err)
	}
	dashboard.Ranking = higher + 1

	if dashboard.UnreadNotifications, err = s.store.Notifications().CountUnread(ctx, userID); err != nil {
		return nil, s.dashboardError(userID, "unread notifications", err)
	}
	if dashboard.RecentActivities, err = s.store.Activities().ListRecent(ctx, userID, 10); err != nil {
		return nil, s.dashboardError(userID, "activities", err)
	}
	if dashboard.RecentNotifications, err = s.store.Notifications().ListByUser(ctx, userID, 5); err != nil {
		return nil, s.dashboardError(userID, "notifications", err)
	}
	now := time.Now()
	if dashboard.UpcomingEvents, err = s.store.Events().ListUpcoming(ctx, now, 5); err != nil {
		return nil, s.dashboardError(userID, "events", err)
	}
	if dashboard.ActiveChallenges, err = s.store.Challenges().ListUpcoming(ctx, now, 3); err != nil {
		return nil, s.dashboardError(userID, "active challenges", err)
	}
	return dashboard, nil
}

func (s *ProfileService) dashboardError(userID int, part string, err error) error {
	util.Logger.Error("获取仪表盘数据失败", zap.Error(err), zap.Int("user_id", userID), zap.String("part", part))
	return errors.Wrap(errors.ErrDatabase, "failed to load dashboard "+part, err)
}

func (s *ProfileService) Leaderboard(ctx context.Context, limit int) ([]*model.UserProfile, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultLeaderboardLimit
	}
	profiles, err := s.store.Profiles().Leaderboard(ctx, limit)
	if err != nil {
		util.Logger.Error("获取排行榜失败", zap.Error(err))
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load leaderboard", err)
	}
	return profiles, nil
}

func (s *ProfileService) recordActivity(ctx context.Context, tx interfaces.Store, userID int, activityType, description string) error {
	err := tx.Activities().Create(ctx, &model.UserActivity{
		UserID:       userID,
		ActivityType: activityType,
		Description:  description,
	})
	if err != nil {
		util.Logger.Error("记录用户动态失败", zap.Error(err), zap.Int("user_id", userID))
		return wrapWriteError("failed to record activity", err)
	}
	return nil
}
