package service

import (
	"aime-backend/internal/errors"
	"aime-backend/internal/model"
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDonationDefaults(t *testing.T) {
	env := newTestEnv(t, false)

	donation, err := env.donations.CreateDonation(context.Background(), CreateDonationInput{
		DonorName:  " Amani ",
		DonorEmail: "Amani@Example.org",
		Amount:     decimal.NewFromInt(2000),
	})

	require.NoError(t, err)
	assert.Equal(t, "Amani", donation.DonorName)
	assert.Equal(t, "amani@example.org", donation.DonorEmail)
	assert.Equal(t, model.DefaultCurrency, donation.Currency)
	assert.Equal(t, model.DonationPending, donation.Status)
	assert.True(t, strings.HasPrefix(donation.TransactionID, "DON-"))
	assert.Empty(t, env.impactPoints(t))
}

func TestCreateDonationRejectsNonPositiveAmount(t *testing.T) {
	env := newTestEnv(t, false)

	_, err := env.donations.CreateDonation(context.Background(), CreateDonationInput{
		DonorName: "Amani", DonorEmail: "amani@example.org", Amount: decimal.Zero,
	})

	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestCreateDonationUnknownProject(t *testing.T) {
	env := newTestEnv(t, false)

	_, err := env.donations.CreateDonation(context.Background(), CreateDonationInput{
		DonorName: "Amani", DonorEmail: "amani@example.org", Amount: decimal.NewFromInt(10), ProjectSlug: "missing",
	})

	assert.True(t, errors.Is(err, errors.ErrResourceNotFound))
	list, _ := env.donations.ListDonationsByEmail(context.Background(), "amani@example.org")
	assert.Empty(t, list)
}

func TestCompletingDonationSyncsImpactAndProject(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.addProfile(t, 1, model.RoleDonor, "amani@example.org")
	project := &model.Project{Name: "École", Slug: "ecole", Status: model.ProjectActive, GoalAmount: decimal.NewFromInt(100000)}
	env.store.AddProject(project)

	donation, err := env.donations.CreateDonation(ctx, CreateDonationInput{
		DonorName: "Amani", DonorEmail: "amani@example.org", Amount: decimal.NewFromInt(5500), ProjectSlug: "ecole",
	})
	require.NoError(t, err)

	updated, err := env.donations.UpdateDonationStatus(ctx, donation.ID, model.DonationCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.DonationCompleted, updated.Status)

	points := env.impactPoints(t)
	require.Len(t, points, 1)
	assert.Equal(t, donation.ID, *points[0].RelatedID)

	stored, err := env.store.Projects().GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.True(t, stored.RaisedAmount.Equal(decimal.NewFromInt(5500)))

	// 捐款不发放积分
	profile, err := env.store.Profiles().GetByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, profile.Points)

	// 重复设置同一状态不会重复累计
	_, err = env.donations.UpdateDonationStatus(ctx, donation.ID, model.DonationCompleted)
	require.NoError(t, err)
	stored, _ = env.store.Projects().GetByID(ctx, project.ID)
	assert.True(t, stored.RaisedAmount.Equal(decimal.NewFromInt(5500)))
	assert.Len(t, env.impactPoints(t), 1)
}

func TestRefundingDonationRevertsProjectAmount(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	project := &model.Project{Name: "École", Slug: "ecole", Status: model.ProjectActive}
	env.store.AddProject(project)

	donation, err := env.donations.CreateDonation(ctx, CreateDonationInput{
		DonorName: "Amani", DonorEmail: "amani@example.org", Amount: decimal.NewFromInt(800),
		ProjectSlug: "ecole", Status: model.DonationCompleted,
	})
	require.NoError(t, err)

	_, err = env.donations.UpdateDonationStatus(ctx, donation.ID, model.DonationRefunded)
	require.NoError(t, err)

	stored, _ := env.store.Projects().GetByID(ctx, project.ID)
	assert.True(t, stored.RaisedAmount.IsZero())
	// 默认保留历史影响点
	assert.Len(t, env.impactPoints(t), 1)
}

func TestUpdateDonationStatusErrors(t *testing.T) {
	env := newTestEnv(t, false)

	_, err := env.donations.UpdateDonationStatus(context.Background(), 1, "paid")
	assert.True(t, errors.Is(err, errors.ErrInvalidStatus))

	_, err = env.donations.UpdateDonationStatus(context.Background(), 99, model.DonationCompleted)
	assert.True(t, errors.Is(err, errors.ErrResourceNotFound))
}

func TestDonationStatusCyclingDoesNotAccumulate(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.addProfile(t, 1, model.RoleDonor, "amani@example.org")
	project := &model.Project{Name: "École", Slug: "ecole", Status: model.ProjectActive}
	env.store.AddProject(project)

	donation, err := env.donations.CreateDonation(ctx, CreateDonationInput{
		DonorName: "Amani", DonorEmail: "amani@example.org", Amount: decimal.NewFromInt(5000),
		ProjectSlug: "ecole", Status: model.DonationCompleted,
	})
	require.NoError(t, err)

	for _, status := range []string{
		model.DonationRefunded, model.DonationCompleted, model.DonationFailed, model.DonationCompleted,
	} {
		_, err := env.donations.UpdateDonationStatus(ctx, donation.ID, status)
		require.NoError(t, err, status)
	}

	profile, err := env.store.Profiles().GetByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, profile.Points)

	activities, err := env.store.Activities().ListRecent(ctx, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, activities)

	stored, err := env.store.Projects().GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.True(t, stored.RaisedAmount.Equal(decimal.NewFromInt(5000)))
	assert.Len(t, env.impactPoints(t), 1)
}
