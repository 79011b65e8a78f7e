package memory

import (
	"aime-backend/internal/model"
	"context"
	"sort"
	"time"
)

type profileRepository struct {
	db *db
}

func copyProfile(p *model.UserProfile) *model.UserProfile {
	c := *p
	c.Badges = append([]string{}, p.Badges...)
	if p.Latitude != nil {
		lat := *p.Latitude
		c.Latitude = &lat
	}
	if p.Longitude != nil {
		lng := *p.Longitude
		c.Longitude = &lng
	}
	return &c
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID int) (*model.UserProfile, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if p, ok := r.db.t.profiles[userID]; ok {
		return copyProfile(p), nil
	}
	return nil, nil
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, p := range r.db.t.profiles {
		if p.Email == email {
			return copyProfile(p), nil
		}
	}
	return nil, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *model.UserProfile) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.t.profiles[profile.UserID]; ok {
		return ErrDuplicate
	}
	if profile.JoinedAt.IsZero() {
		profile.JoinedAt = time.Now()
	}
	if profile.Level == 0 {
		profile.Level = model.LevelForPoints(profile.Points)
	}
	if profile.Badges == nil {
		profile.Badges = []string{}
	}
	r.db.t.profiles[profile.UserID] = copyProfile(profile)
	return nil
}

func (r *profileRepository) UpdateGamification(ctx context.Context, profile *model.UserProfile) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if p, ok := r.db.t.profiles[profile.UserID]; ok {
		p.Points = profile.Points
		p.Level = profile.Level
		p.Badges = append([]string{}, profile.Badges...)
	}
	return nil
}

func (r *profileRepository) UpdateDetails(ctx context.Context, profile *model.UserProfile) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.t.profiles[profile.UserID]
	if !ok {
		return nil
	}
	updated := copyProfile(profile)
	p.Phone = updated.Phone
	p.Role = updated.Role
	p.Latitude = updated.Latitude
	p.Longitude = updated.Longitude
	p.EmailNotifications = updated.EmailNotifications
	return nil
}

func (r *profileRepository) CountWithMorePoints(ctx context.Context, points int) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	count := 0
	for _, p := range r.db.t.profiles {
		if p.Points > points {
			count++
		}
	}
	return count, nil
}

func (r *profileRepository) Leaderboard(ctx context.Context, limit int) ([]*model.UserProfile, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var profiles []*model.UserProfile
	for _, p := range r.db.t.profiles {
		if p.IsActive && p.Points > 0 {
			profiles = append(profiles, copyProfile(p))
		}
	}
	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].Points == profiles[j].Points {
			return profiles[i].UserID < profiles[j].UserID
		}
		return profiles[i].Points > profiles[j].Points
	})
	if len(profiles) > limit {
		profiles = profiles[:limit]
	}
	return profiles, nil
}

type activityRepository struct {
	db *db
}

func (r *activityRepository) Create(ctx context.Context, activity *model.UserActivity) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if activity.Timestamp.IsZero() {
		activity.Timestamp = time.Now()
	}
	activity.ID = r.db.t.nextID()
	a := *activity
	r.db.t.activities[a.ID] = &a
	return nil
}

func (r *activityRepository) ListRecent(ctx context.Context, userID, limit int) ([]*model.UserActivity, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var activities []*model.UserActivity
	for _, a := range r.db.t.activities {
		if a.UserID == userID {
			c := *a
			activities = append(activities, &c)
		}
	}
	sort.Slice(activities, func(i, j int) bool {
		return newerFirst(activities[i].Timestamp, activities[j].Timestamp, activities[i].ID, activities[j].ID)
	})
	if len(activities) > limit {
		activities = activities[:limit]
	}
	return activities, nil
}

type notificationRepository struct {
	db *db
}

func (r *notificationRepository) GetOrCreate(ctx context.Context, notification *model.UserNotification) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	key := notification.DedupKey()
	for id, k := range r.db.t.dedupKeys {
		if k == key && r.db.t.notifications[id].UserID == notification.UserID {
			*notification = *r.db.t.notifications[id]
			return false, nil
		}
	}

	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	notification.ID = r.db.t.nextID()
	n := *notification
	r.db.t.notifications[n.ID] = &n
	r.db.t.dedupKeys[n.ID] = key
	return true, nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID, limit int) ([]*model.UserNotification, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var notifications []*model.UserNotification
	for _, n := range r.db.t.notifications {
		if n.UserID == userID {
			c := *n
			notifications = append(notifications, &c)
		}
	}
	sort.Slice(notifications, func(i, j int) bool {
		return newerFirst(notifications[i].CreatedAt, notifications[j].CreatedAt, notifications[i].ID, notifications[j].ID)
	})
	if len(notifications) > limit {
		notifications = notifications[:limit]
	}
	return notifications, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID int) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	count := 0
	for _, n := range r.db.t.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID int) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	n, ok := r.db.t.notifications[id]
	if !ok || n.UserID != userID {
		return false, nil
	}
	n.IsRead = true
	return true, nil
}
