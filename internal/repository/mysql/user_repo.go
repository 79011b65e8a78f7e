package mysql

import (
	"aime-backend/internal/model"
	"aime-backend/internal/util"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
)

type profileRepository struct {
	q dbtx
}

const profileSelect = `SELECT p.user_id, u.username, TRIM(CONCAT(u.first_name, ' ', u.last_name)), u.email,
	p.phone, p.role, u.is_active, p.latitude, p.longitude, p.points, p.level, p.badges,
	p.email_notifications, p.joined_date
	FROM user_profiles p
	JOIN users u ON u.id = p.user_id`

func (r *profileRepository) GetByUserID(ctx context.Context, userID int) (*model.UserProfile, error) {
	profile, err := scanProfile(r.q.QueryRowContext(ctx, profileSelect+` WHERE p.user_id = ?`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return profile, err
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	profile, err := scanProfile(r.q.QueryRowContext(ctx, profileSelect+` WHERE u.email = ? LIMIT 1`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return profile, err
}

// Create 为已存在的用户创建扩展资料
func (r *profileRepository) Create(ctx context.Context, profile *model.UserProfile) error {
	if profile.JoinedAt.IsZero() {
		profile.JoinedAt = time.Now()
	}
	if profile.Level == 0 {
		profile.Level = model.LevelForPoints(profile.Points)
	}

	badges, err := encodeBadges(profile.Badges)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx,
		`INSERT INTO user_profiles (user_id, phone, role, latitude, longitude, points, level, badges, email_notifications, joined_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		profile.UserID, profile.Phone, profile.Role, profile.Latitude, profile.Longitude,
		profile.Points, profile.Level, badges, profile.EmailNotifications, profile.JoinedAt)
	if err != nil {
		util.Logger.Error("创建用户资料失败", zap.Error(err), zap.Int("user_id", profile.UserID))
		return translateWriteError(err)
	}
	return nil
}

func (r *profileRepository) UpdateGamification(ctx context.Context, profile *model.UserProfile) error {
	badges, err := encodeBadges(profile.Badges)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx,
		`UPDATE user_profiles SET points = ?, level = ?, badges = ? WHERE user_id = ?`,
		profile.Points, profile.Level, badges, profile.UserID)
	if err != nil {
		util.Logger.Error("更新用户积分失败", zap.Error(err), zap.Int("user_id", profile.UserID))
	}
	return err
}

func (r *profileRepository) UpdateDetails(ctx context.Context, profile *model.UserProfile) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE user_profiles SET phone = ?, role = ?, latitude = ?, longitude = ?, email_notifications = ? WHERE user_id = ?`,
		profile.Phone, profile.Role, profile.Latitude, profile.Longitude, profile.EmailNotifications, profile.UserID)
	if err != nil {
		util.Logger.Error("更新用户资料失败", zap.Error(err), zap.Int("user_id", profile.UserID))
	}
	return err
}

func (r *profileRepository) CountWithMorePoints(ctx context.Context, points int) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_profiles WHERE points > ?`, points).Scan(&count)
	return count, err
}

func (r *profileRepository) Leaderboard(ctx context.Context, limit int) ([]*model.UserProfile, error) {
	rows, err := r.q.QueryContext(ctx,
		profileSelect+` WHERE u.is_active = TRUE AND p.points > 0 ORDER BY p.points DESC, p.user_id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*model.UserProfile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}

func scanProfile(s scanner) (*model.UserProfile, error) {
	var (
		p      model.UserProfile
		badges string
	)
	err := s.Scan(&p.UserID, &p.Username, &p.FullName, &p.Email, &p.Phone, &p.Role, &p.IsActive,
		&p.Latitude, &p.Longitude, &p.Points, &p.Level, &badges, &p.EmailNotifications, &p.JoinedAt)
	if err != nil {
		return nil, err
	}
	if p.Badges, err = decodeBadges(badges); err != nil {
		return nil, err
	}
	return &p, nil
}

// 徽章以 JSON 数组保存在 TEXT 列中
func encodeBadges(badges []string) (string, error) {
	if badges == nil {
		badges = []string{}
	}
	data, err := json.Marshal(badges)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeBadges(raw string) ([]string, error) {
	badges := []string{}
	if raw == "" {
		return badges, nil
	}
	if err := json.Unmarshal([]byte(raw), &badges); err != nil {
		return nil, err
	}
	return badges, nil
}

type activityRepository struct {
	q dbtx
}

func (r *activityRepository) Create(ctx context.Context, activity *model.UserActivity) error {
	if activity.Timestamp.IsZero() {
		activity.Timestamp = time.Now()
	}
	result, err := r.q.ExecContext(ctx,
		`INSERT INTO user_activities (user_id, activity_type, description, timestamp) VALUES (?, ?, ?, ?)`,
		activity.UserID, activity.ActivityType, activity.Description, activity.Timestamp)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	activity.ID = int(id)
	return nil
}

func (r *activityRepository) ListRecent(ctx context.Context, userID, limit int) ([]*model.UserActivity, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, user_id, activity_type, description, timestamp FROM user_activities
		 WHERE user_id = ? ORDER BY timestamp DESC, id DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []*model.UserActivity
	for rows.Next() {
		var a model.UserActivity
		if err := rows.Scan(&a.ID, &a.UserID, &a.ActivityType, &a.Description, &a.Timestamp); err != nil {
			return nil, err
		}
		activities = append(activities, &a)
	}
	return activities, rows.Err()
}

type notificationRepository struct {
	q dbtx
}

const notificationColumns = `id, user_id, title, message, notification_type, is_read, created_at`

// GetOrCreate 依赖 (user_id, dedup_key) 唯一键实现幂等
func (r *notificationRepository) GetOrCreate(ctx context.Context, notification *model.UserNotification) (bool, error) {
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	dedupKey := notification.DedupKey()

	result, err := r.q.ExecContext(ctx,
		`INSERT INTO user_notifications (user_id, title, message, notification_type, is_read, dedup_key, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		notification.UserID, notification.Title, notification.Message, notification.NotificationType,
		notification.IsRead, dedupKey, notification.CreatedAt)
	if err == nil {
		id, err := result.LastInsertId()
		if err != nil {
			return false, err
		}
		notification.ID = int(id)
		return true, nil
	}
	if !isDuplicateEntry(err) {
		util.Logger.Error("创建通知失败", zap.Error(err), zap.Int("user_id", notification.UserID))
		return false, translateWriteError(err)
	}

	existing, err := scanNotification(r.q.QueryRowContext(ctx,
		`SELECT `+notificationColumns+` FROM user_notifications WHERE user_id = ? AND dedup_key = ?`,
		notification.UserID, dedupKey))
	if err != nil {
		return false, err
	}
	*notification = *existing
	return false, nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID, limit int) ([]*model.UserNotification, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+notificationColumns+` FROM user_notifications WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*model.UserNotification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_notifications WHERE user_id = ? AND is_read = FALSE`, userID).Scan(&count)
	return count, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID int) (bool, error) {
	result, err := r.q.ExecContext(ctx,
		`UPDATE user_notifications SET is_read = TRUE WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected > 0 {
		return true, nil
	}

	// 已读通知不会产生受影响行，需要再确认记录是否存在
	var count int
	err = r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_notifications WHERE id = ? AND user_id = ?`, id, userID).Scan(&count)
	return count > 0, err
}

func scanNotification(s scanner) (*model.UserNotification, error) {
	var n model.UserNotification
	if err := s.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.NotificationType, &n.IsRead, &n.CreatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}
