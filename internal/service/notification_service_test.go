package service

import (
	"aime-backend/internal/errors"
	"aime-backend/internal/model"
	"aime-backend/internal/repository/interfaces"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notify(t *testing.T, env *testEnv, n *model.UserNotification) bool {
	t.Helper()
	var created bool
	err := env.store.WithinTx(context.Background(), func(tx interfaces.Store) error {
		var err error
		created, err = env.notifications.Notify(context.Background(), tx, n)
		return err
	})
	require.NoError(t, err)
	return created
}

func TestNotifyMailsOnlyOptedInUsers(t *testing.T) {
	env := newTestEnv(t, false)
	// addProfile 创建的资料不接收邮件
	env.addProfile(t, 2, model.RoleMember, "out@example.org")
	require.NoError(t, env.store.Profiles().Create(context.Background(), &model.UserProfile{
		UserID: 3, Email: "mail@example.org", EmailNotifications: true, IsActive: true,
	}))

	assert.True(t, notify(t, env, &model.UserNotification{UserID: 2, Title: "t", Message: "m"}))
	assert.True(t, notify(t, env, &model.UserNotification{UserID: 3, Title: "t", Message: "m"}))
	assert.False(t, notify(t, env, &model.UserNotification{UserID: 3, Title: "t", Message: "m"}))

	require.Len(t, env.mailer.sent, 1)
	assert.Equal(t, "mail@example.org", env.mailer.sent[0].to)
	assert.Equal(t, "t", env.mailer.sent[0].subject)

	list := env.notificationsFor(t, 3)
	require.Len(t, list, 1)
	assert.Equal(t, model.NotificationInfo, list[0].NotificationType)
}

func TestNotifyWithoutMailer(t *testing.T) {
	env := newTestEnv(t, false)
	env.notifications = NewNotificationService(env.store, nil)
	require.NoError(t, env.store.Profiles().Create(context.Background(), &model.UserProfile{
		UserID: 1, Email: "mail@example.org", EmailNotifications: true,
	}))

	assert.True(t, notify(t, env, &model.UserNotification{UserID: 1, Title: "t", Message: "m"}))
	assert.Empty(t, env.mailer.sent)
}

func TestMarkRead(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	notify(t, env, &model.UserNotification{UserID: 1, Title: "t", Message: "m"})
	list := env.notificationsFor(t, 1)
	require.Len(t, list, 1)

	err := env.notifications.MarkRead(ctx, list[0].ID, 2)
	assert.True(t, errors.Is(err, errors.ErrResourceNotFound))

	require.NoError(t, env.notifications.MarkRead(ctx, list[0].ID, 1))
	require.NoError(t, env.notifications.MarkRead(ctx, list[0].ID, 1))

	unread, err := env.store.Notifications().CountUnread(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestListNotificationsDefaultLimit(t *testing.T) {
	env := newTestEnv(t, false)
	for i := 0; i < 25; i++ {
		notify(t, env, &model.UserNotification{UserID: 1, Title: "t", Message: string(rune('a' + i))})
	}

	list, err := env.notifications.ListNotifications(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Len(t, list, defaultNotificationLimit)
}
