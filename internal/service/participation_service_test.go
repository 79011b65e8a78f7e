package service

import (
	"aime-backend/internal/errors"
	"aime-backend/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinEventRewardsOnce(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.addProfile(t, 1, model.RoleMember, "grace@example.org")
	event := env.addEvent(t, "Atelier couture", true)

	p, created, err := env.participation.JoinEvent(ctx, 1, event.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, model.ParticipationRegistered, p.Status)

	again, created, err := env.participation.JoinEvent(ctx, 1, event.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, p.ID, again.ID)

	profile, _ := env.store.Profiles().GetByUserID(ctx, 1)
	assert.Equal(t, 50, profile.Points)

	notes := env.notificationsFor(t, 1)
	require.Len(t, notes, 1)
	assert.Equal(t, "Inscription confirmée", notes[0].Title)
	assert.Equal(t, "Vous êtes inscrit à l'événement \"Atelier couture\"", notes[0].Message)

	// 报名状态不产生影响点
	assert.Empty(t, env.impactPoints(t))
}

func TestJoinEventInactiveOrMissing(t *testing.T) {
	env := newTestEnv(t, false)
	inactive := env.addEvent(t, "Ancien", false)

	_, _, err := env.participation.JoinEvent(context.Background(), 1, inactive.ID)
	assert.True(t, errors.Is(err, errors.ErrEventInactive))

	_, _, err = env.participation.JoinEvent(context.Background(), 1, 999)
	assert.True(t, errors.Is(err, errors.ErrResourceNotFound))
}

func TestConfirmParticipationSyncsImpact(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	event := env.addEvent(t, "Journée propreté", true)

	p, _, err := env.participation.JoinEvent(ctx, 3, event.ID)
	require.NoError(t, err)

	_, err = env.participation.UpdateParticipationStatus(ctx, p.ID, model.ParticipationConfirmed)
	require.NoError(t, err)
	_, err = env.participation.UpdateParticipationStatus(ctx, p.ID, model.ParticipationAttended)
	require.NoError(t, err)

	points := env.impactPoints(t)
	require.Len(t, points, 1)
	assert.Equal(t, model.ParticipationAttended, points[0].Status)
	assert.Equal(t, "Participation à Journée propreté", points[0].Description)

	stats, err := env.stats.GetSiteStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.EventParticipations)
}

func TestUpdateParticipationStatusInvalid(t *testing.T) {
	env := newTestEnv(t, false)

	_, err := env.participation.UpdateParticipationStatus(context.Background(), 1, "maybe")
	assert.True(t, errors.Is(err, errors.ErrInvalidStatus))
}
