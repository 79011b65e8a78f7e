package service

import (
	"aime-backend/internal/model"
	"aime-backend/internal/repository/memory"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to, subject, body string
}

// recordingMailer 记录发送的邮件
type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *recordingMailer) SendAsync(to, subject, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to, subject, body})
}

type testEnv struct {
	store         *memory.Store
	mailer        *recordingMailer
	notifications *NotificationService
	sync          *ImpactSynchronizer
	profiles      *ProfileService
	donations     *DonationService
	participation *ParticipationService
	challenges    *ChallengeService
	contributions *ContributionService
	stats         *StatsService
	impacts       *ImpactService
	catalog       *CatalogService
}

func newTestEnv(t *testing.T, retract bool) *testEnv {
	t.Helper()
	store := memory.NewStore()
	mailer := &recordingMailer{}
	svc := NewServices(store, mailer, retract, nil)
	return &testEnv{
		store:         store,
		mailer:        mailer,
		notifications: svc.Notifications,
		sync:          svc.Sync,
		profiles:      svc.Profiles,
		donations:     svc.Donations,
		participation: svc.Participation,
		challenges:    svc.Challenges,
		contributions: svc.Contributions,
		stats:         svc.Stats,
		impacts:       svc.Impacts,
		catalog:       svc.Catalog,
	}
}

func (e *testEnv) addProfile(t *testing.T, userID int, role, email string) *model.UserProfile {
	t.Helper()
	profile := &model.UserProfile{
		UserID:   userID,
		Username: "user" + email,
		FullName: "User " + email,
		Email:    email,
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, e.store.Profiles().Create(context.Background(), profile))
	return profile
}

func (e *testEnv) addEvent(t *testing.T, title string, active bool) *model.Event {
	t.Helper()
	event := &model.Event{
		Title:     title,
		Slug:      title,
		EventType: model.EventWorkshop,
		Date:      time.Now().Add(72 * time.Hour),
		IsActive:  active,
	}
	e.store.AddEvent(event)
	return event
}

func (e *testEnv) impactPoints(t *testing.T) []*model.ImpactPoint {
	t.Helper()
	points, err := e.store.Impacts().List(context.Background())
	require.NoError(t, err)
	return points
}

func (e *testEnv) notificationsFor(t *testing.T, userID int) []*model.UserNotification {
	t.Helper()
	list, err := e.store.Notifications().ListByUser(context.Background(), userID, 100)
	require.NoError(t, err)
	return list
}
