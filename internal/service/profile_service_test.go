package service

import (
	"aime-backend/internal/errors"
	"aime-backend/internal/model"
	"aime-backend/internal/repository/interfaces"
	"aime-backend/internal/repository/memory"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureProfileWelcomesNewUser(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	profile, created, err := env.profiles.EnsureProfile(ctx, &model.UserProfile{
		UserID: 7, Username: "grace", FullName: "Grace Mbuyi", Email: "grace@example.org",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 50, profile.Points)
	assert.Equal(t, 1, profile.Level)
	assert.Equal(t, model.RoleMember, profile.Role)
	assert.True(t, profile.HasBadge(model.BadgeNewMember))

	notes := env.notificationsFor(t, 7)
	require.Len(t, notes, 1)
	assert.Equal(t, "Bienvenue chez AIME !", notes[0].Title)
	assert.Contains(t, notes[0].Message, "Bonjour Grace,")

	activities, err := env.store.Activities().ListRecent(ctx, 7, 10)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "Inscription sur la plateforme AIME", activities[0].Description)

	require.Len(t, env.mailer.sent, 1)
	assert.Equal(t, "grace@example.org", env.mailer.sent[0].to)

	_, created, err = env.profiles.EnsureProfile(ctx, &model.UserProfile{UserID: 7})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, env.notificationsFor(t, 7), 1)
}

func TestAwardLevelThresholds(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.addProfile(t, 1, model.RoleMember, "a@example.org")

	steps := []struct {
		add   int
		level int
	}{
		{99, 1}, {1, 2}, {399, 2}, {1, 3}, {500, 4}, {1499, 4}, {1, 5},
	}
	for _, s := range steps {
		profile, err := env.profiles.Award(ctx, 1, s.add)
		require.NoError(t, err)
		assert.Equal(t, s.level, profile.Level, "points=%d", profile.Points)
	}
}

func TestAwardBadgeIsSetLike(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.addProfile(t, 1, model.RoleMember, "a@example.org")

	_, err := env.profiles.Award(ctx, 1, 0, model.BadgeBikeChallenger)
	require.NoError(t, err)
	profile, err := env.profiles.Award(ctx, 1, 0, model.BadgeBikeChallenger)
	require.NoError(t, err)
	assert.Equal(t, []string{model.BadgeBikeChallenger}, profile.Badges)

	_, err = env.profiles.Award(ctx, 99, 0, model.BadgeNewMember)
	assert.True(t, errors.Is(err, errors.ErrResourceNotFound))
}

func TestAwardValidation(t *testing.T) {
	env := newTestEnv(t, false)
	env.addProfile(t, 1, model.RoleMember, "a@example.org")

	_, err := env.profiles.Award(context.Background(), 1, -10)
	assert.True(t, errors.Is(err, errors.ErrValidation))
	_, err = env.profiles.Award(context.Background(), 1, 0)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestDashboardRanking(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.addProfile(t, 1, model.RoleMember, "a@example.org")
	env.addProfile(t, 2, model.RoleMember, "b@example.org")
	env.addProfile(t, 3, model.RoleMember, "c@example.org")
	_, _ = env.profiles.Award(ctx, 1, 300)
	_, _ = env.profiles.Award(ctx, 2, 300)
	_, _ = env.profiles.Award(ctx, 3, 100)
	env.store.AddChallenge(&model.MBCChallenge{Name: "MBC 2025", IsActive: true, Date: time.Now().Add(24 * time.Hour)})
	env.store.AddChallenge(&model.MBCChallenge{Name: "MBC 2023", IsActive: true, Date: time.Now().Add(-24 * time.Hour)})
	env.store.AddChallenge(&model.MBCChallenge{Name: "MBC annulé", IsActive: false, Date: time.Now().Add(48 * time.Hour)})

	_, err := env.donations.CreateDonation(ctx, CreateDonationInput{
		DonorName: "C", DonorEmail: "c@example.org", Amount: decimal.NewFromInt(3000), Status: model.DonationCompleted,
	})
	require.NoError(t, err)
	_, err = env.donations.CreateDonation(ctx, CreateDonationInput{
		DonorName: "C", DonorEmail: "c@example.org", Amount: decimal.NewFromInt(700),
	})
	require.NoError(t, err)

	dashboard, err := env.profiles.GetDashboard(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, dashboard.Ranking)
	assert.Equal(t, int64(3000), dashboard.TotalDonations)
	assert.Equal(t, 1, dashboard.DonationsCount)
	assert.Empty(t, dashboard.RecentActivities)
	require.Len(t, dashboard.ActiveChallenges, 1)
	assert.Equal(t, "MBC 2025", dashboard.ActiveChallenges[0].Name)

	tied, err := env.profiles.GetDashboard(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, tied.Ranking)

	leaders, err := env.profiles.Leaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, leaders, 2)
	assert.Equal(t, 1, leaders[0].UserID)
	assert.Equal(t, 2, leaders[1].UserID)
}

func TestUpdateProfileChangesRoleAndLocation(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.addProfile(t, 1, model.RoleMember, "a@example.org")
	role, phone := model.RoleVolunteer, " +243 81 000 0000 "
	lat, lng := -4.4419, 15.2663

	profile, err := env.profiles.UpdateProfile(ctx, 1, UpdateProfileInput{
		Phone: &phone, Role: &role, Latitude: &lat, Longitude: &lng,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleVolunteer, profile.Role)
	assert.Equal(t, "+243 81 000 0000", profile.Phone)

	stored, err := env.store.Profiles().GetByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.RoleVolunteer, stored.Role)
	require.NotNil(t, stored.Latitude)
	assert.InDelta(t, lat, *stored.Latitude, 1e-9)

	stats, err := env.stats.GetSiteStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalVolunteers)
	assert.Equal(t, 0, stats.FamiliesSupported)

	activities, err := env.store.Activities().ListRecent(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, model.ActivityProfileUpdated, activities[0].ActivityType)
}

func TestUpdateProfileRejects(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.addProfile(t, 1, model.RoleMember, "a@example.org")
	staff, unknown := model.RoleStaff, "wizard"

	_, err := env.profiles.UpdateProfile(ctx, 1, UpdateProfileInput{})
	assert.True(t, errors.Is(err, errors.ErrValidation))
	_, err = env.profiles.UpdateProfile(ctx, 1, UpdateProfileInput{Role: &staff})
	assert.True(t, errors.Is(err, errors.ErrValidation))
	_, err = env.profiles.UpdateProfile(ctx, 1, UpdateProfileInput{Role: &unknown})
	assert.True(t, errors.Is(err, errors.ErrValidation))
	_, err = env.profiles.UpdateProfile(ctx, 99, UpdateProfileInput{Role: &unknown})
	assert.True(t, errors.Is(err, errors.ErrValidation))

	child := model.RoleChild
	_, err = env.profiles.UpdateProfile(ctx, 99, UpdateProfileInput{Role: &child})
	assert.True(t, errors.Is(err, errors.ErrResourceNotFound))

	stored, _ := env.store.Profiles().GetByUserID(ctx, 1)
	assert.Equal(t, model.RoleMember, stored.Role)
}

func TestUpdatePreferencesStopsMail(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	_, _, err := env.profiles.EnsureProfile(ctx, &model.UserProfile{UserID: 4, Username: "grace", Email: "grace@example.org"})
	require.NoError(t, err)
	require.Len(t, env.mailer.sent, 1)

	off := false
	profile, err := env.profiles.UpdatePreferences(ctx, 4, PreferencesInput{EmailNotifications: &off})
	require.NoError(t, err)
	assert.False(t, profile.EmailNotifications)

	assert.True(t, notify(t, env, &model.UserNotification{UserID: 4, Title: "t", Message: "m"}))
	assert.Len(t, env.mailer.sent, 1)

	activities, err := env.store.Activities().ListRecent(ctx, 4, 10)
	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, model.ActivityProfileUpdated, activities[0].ActivityType)

	_, err = env.profiles.UpdatePreferences(ctx, 4, PreferencesInput{})
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

// missingUserStore 模拟 users 表中没有对应行的数据库
type missingUserStore struct {
	*memory.Store
}

type missingUserProfiles struct {
	interfaces.ProfileRepository
}

func (missingUserProfiles) Create(ctx context.Context, profile *model.UserProfile) error {
	return fmt.Errorf("%w: fk_profile_user", interfaces.ErrMissingReference)
}

func (s missingUserStore) Profiles() interfaces.ProfileRepository {
	return missingUserProfiles{s.Store.Profiles()}
}

func (s missingUserStore) WithinTx(ctx context.Context, fn func(tx interfaces.Store) error) error {
	return fn(s)
}

func TestEnsureProfileUnknownUser(t *testing.T) {
	svc := NewServices(missingUserStore{memory.NewStore()}, nil, false, nil)

	_, _, err := svc.Profiles.EnsureProfile(context.Background(), &model.UserProfile{UserID: 404, Username: "ghost", Email: "ghost@example.org"})

	assert.True(t, errors.Is(err, errors.ErrResourceNotFound))
}
