package service

import (
	"aime-backend/internal/errors"
	"aime-backend/internal/model"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addChallenge(env *testEnv, max int, active bool) *model.MBCChallenge {
	challenge := &model.MBCChallenge{
		Name:            "Mutoto Bike Challenge 2025",
		Slug:            "mbc-2025",
		Date:            time.Now().Add(30 * 24 * time.Hour),
		MaxParticipants: max,
		IsActive:        active,
	}
	env.store.AddChallenge(challenge)
	return challenge
}

func TestJoinChallengeAwardsBadgeOnce(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.addProfile(t, 1, model.RoleMember, "rider@example.org")
	challenge := addChallenge(env, 10, true)

	participant, created, err := env.challenges.JoinChallenge(ctx, 1, challenge.ID, 0)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, model.MBCPending, participant.Status)
	assert.Equal(t, defaultParticipantAge, participant.Age)
	assert.Equal(t, "rider@example.org", participant.ParticipantEmail)

	_, created, err = env.challenges.JoinChallenge(ctx, 1, challenge.ID, 30)
	require.NoError(t, err)
	assert.False(t, created)

	profile, _ := env.store.Profiles().GetByUserID(ctx, 1)
	assert.Equal(t, 100, profile.Points)
	assert.Equal(t, 2, profile.Level)
	assert.Equal(t, []string{model.BadgeBikeChallenger}, profile.Badges)

	notes := env.notificationsFor(t, 1)
	require.Len(t, notes, 1)
	assert.Equal(t, "Challenge MBC", notes[0].Title)
}

func TestJoinChallengeFull(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.addProfile(t, 1, model.RoleMember, "a@example.org")
	env.addProfile(t, 2, model.RoleMember, "b@example.org")
	challenge := addChallenge(env, 1, true)

	first, _, err := env.challenges.JoinChallenge(ctx, 1, challenge.ID, 20)
	require.NoError(t, err)
	_, err = env.challenges.UpdateParticipantStatus(ctx, first.ID, model.MBCConfirmed)
	require.NoError(t, err)

	_, _, err = env.challenges.JoinChallenge(ctx, 2, challenge.ID, 20)
	assert.True(t, errors.Is(err, errors.ErrChallengeFull))
}

func TestConfirmParticipantChecksCapacity(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.addProfile(t, 1, model.RoleMember, "a@example.org")
	env.addProfile(t, 2, model.RoleMember, "b@example.org")
	challenge := addChallenge(env, 1, true)

	first, _, err := env.challenges.JoinChallenge(ctx, 1, challenge.ID, 20)
	require.NoError(t, err)
	second, _, err := env.challenges.JoinChallenge(ctx, 2, challenge.ID, 20)
	require.NoError(t, err)

	_, err = env.challenges.UpdateParticipantStatus(ctx, first.ID, model.MBCConfirmed)
	require.NoError(t, err)
	_, err = env.challenges.UpdateParticipantStatus(ctx, second.ID, model.MBCConfirmed)
	assert.True(t, errors.Is(err, errors.ErrChallengeFull))

	// 已确认的参与者重复确认不受名额限制
	_, err = env.challenges.UpdateParticipantStatus(ctx, first.ID, model.MBCConfirmed)
	assert.NoError(t, err)
}

func TestJoinChallengeErrors(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	inactive := addChallenge(env, 0, false)

	_, _, err := env.challenges.JoinChallenge(ctx, 1, inactive.ID, 0)
	assert.True(t, errors.Is(err, errors.ErrResourceNotFound), "profile is required")

	env.addProfile(t, 1, model.RoleMember, "a@example.org")
	_, _, err = env.challenges.JoinChallenge(ctx, 1, inactive.ID, 0)
	assert.True(t, errors.Is(err, errors.ErrEventInactive))

	_, err = env.challenges.UpdateParticipantStatus(ctx, 1, "done")
	assert.True(t, errors.Is(err, errors.ErrInvalidStatus))
}
