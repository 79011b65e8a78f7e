package mysql

import (
	"aime-backend/internal/model"
	"aime-backend/internal/repository/interfaces"
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db), mock
}

func q(s string) string {
	return regexp.QuoteMeta(s)
}

func TestImpactUpsertBackfillsID(t *testing.T) {
	store, mock := newMockStore(t)
	relatedID := 12

	mock.ExpectExec(q("INSERT INTO impact_points") + ".*" + q("ON DUPLICATE KEY UPDATE")).
		WithArgs(model.ImpactDonation, 12, model.RelatedDonation, nil, nil, "Don de Amani",
			sqlmock.AnyArg(), model.DonationCompleted, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 2))

	point := &model.ImpactPoint{
		Type:         model.ImpactDonation,
		RelatedID:    &relatedID,
		RelatedModel: model.RelatedDonation,
		Description:  "Don de Amani",
		Value:        decimal.NewNullDecimal(decimal.NewFromInt(5000)),
		Status:       model.DonationCompleted,
	}
	err := store.Impacts().Upsert(context.Background(), point)

	assert.NoError(t, err)
	assert.Equal(t, 7, point.ID)
	assert.False(t, point.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImpactListScansNullableColumns(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "type", "related_id", "related_model", "latitude", "longitude",
		"description", "value", "status", "created_at", "updated_at"}).
		AddRow(1, "participation", 4, "EventParticipation", nil, nil, "Participation à Atelier", nil, "attended", created, created).
		AddRow(2, "project", nil, "", "-4.325", "15.322", "École Masina", "1500.00", "active", created, created)
	mock.ExpectQuery(q("FROM impact_points ORDER BY")).WillReturnRows(rows)

	points, err := store.Impacts().List(context.Background())

	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 4, *points[0].RelatedID)
	assert.Nil(t, points[0].Latitude)
	assert.False(t, points[0].Value.Valid)
	assert.Nil(t, points[1].RelatedID)
	assert.InDelta(t, -4.325, *points[1].Latitude, 1e-9)
	assert.True(t, points[1].Value.Decimal.Equal(decimal.NewFromInt(1500)))
}

func TestNotificationGetOrCreateExisting(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := &model.UserNotification{
		UserID:           5,
		Title:            "Contribution staff validée",
		Message:          "Vous avez validé la contribution de Amani (1000 CDF, 2024-01).",
		NotificationType: model.NotificationInfo,
	}

	mock.ExpectExec(q("INSERT INTO user_notifications")).
		WithArgs(5, n.Title, n.Message, n.NotificationType, false, n.DedupKey(), sqlmock.AnyArg()).
		WillReturnError(&gomysql.MySQLError{Number: 1062, Message: "Duplicate entry '5-abc' for key 'uq_notification_dedup'"})
	mock.ExpectQuery(q("FROM user_notifications WHERE user_id = ? AND dedup_key = ?")).
		WithArgs(5, n.DedupKey()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "message", "notification_type", "is_read", "created_at"}).
			AddRow(41, 5, n.Title, n.Message, n.NotificationType, true, created))

	created2, err := store.Notifications().GetOrCreate(context.Background(), n)

	assert.NoError(t, err)
	assert.False(t, created2)
	assert.Equal(t, 41, n.ID)
	assert.True(t, n.IsRead)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationGetOrCreateNew(t *testing.T) {
	store, mock := newMockStore(t)
	n := &model.UserNotification{UserID: 5, Title: "Bienvenue chez AIME !", Message: "Bonjour", NotificationType: model.NotificationSuccess}

	mock.ExpectExec(q("INSERT INTO user_notifications")).
		WithArgs(5, n.Title, n.Message, n.NotificationType, false, n.DedupKey(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(12, 1))

	created, err := store.Notifications().GetOrCreate(context.Background(), n)

	assert.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 12, n.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationGetOrCreateMissingUser(t *testing.T) {
	store, mock := newMockStore(t)
	n := &model.UserNotification{UserID: 404, Title: "x", Message: "y", NotificationType: model.NotificationInfo}

	mock.ExpectExec(q("INSERT INTO user_notifications")).
		WillReturnError(&gomysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"})

	_, err := store.Notifications().GetOrCreate(context.Background(), n)

	assert.True(t, errors.Is(err, interfaces.ErrMissingReference))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationMarkReadAlreadyRead(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(q("UPDATE user_notifications SET is_read = TRUE")).
		WithArgs(3, 9).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(q("SELECT COUNT(*) FROM user_notifications WHERE id = ?")).
		WithArgs(3, 9).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := store.Notifications().MarkRead(context.Background(), 3, 9)

	assert.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipationGetOrCreateNew(t *testing.T) {
	store, mock := newMockStore(t)
	registered := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(q("INSERT INTO event_participations")).
		WithArgs(2, 8, model.ParticipationRegistered, registered, "").
		WillReturnResult(sqlmock.NewResult(15, 1))
	mock.ExpectQuery(q("WHERE p.user_id = ? AND p.event_id = ?")).
		WithArgs(2, 8).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "event_id", "title", "status", "notes", "registration_date"}).
			AddRow(15, 2, 8, "Atelier couture", model.ParticipationRegistered, "", registered))

	p := &model.EventParticipation{UserID: 2, EventID: 8, Status: model.ParticipationRegistered, RegistrationDate: registered}
	created, err := store.Participations().GetOrCreate(context.Background(), p)

	assert.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 15, p.ID)
	assert.Equal(t, "Atelier couture", p.EventTitle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipationGetOrCreateDuplicate(t *testing.T) {
	store, mock := newMockStore(t)
	registered := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(q("INSERT INTO event_participations")).
		WillReturnError(&gomysql.MySQLError{Number: 1062, Message: "Duplicate entry '2-8' for key 'uq_participation'"})
	mock.ExpectQuery(q("WHERE p.user_id = ? AND p.event_id = ?")).
		WithArgs(2, 8).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "event_id", "title", "status", "notes", "registration_date"}).
			AddRow(15, 2, 8, "Atelier couture", model.ParticipationConfirmed, "", registered))

	p := &model.EventParticipation{UserID: 2, EventID: 8, Status: model.ParticipationRegistered}
	created, err := store.Participations().GetOrCreate(context.Background(), p)

	assert.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, model.ParticipationConfirmed, p.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipationGetOrCreateMissingUser(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(q("INSERT INTO event_participations")).
		WillReturnError(&gomysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"})

	p := &model.EventParticipation{UserID: 404, EventID: 8, Status: model.ParticipationRegistered}
	created, err := store.Participations().GetOrCreate(context.Background(), p)

	assert.False(t, created)
	assert.True(t, errors.Is(err, interfaces.ErrMissingReference))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileCreateMissingUser(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(q("INSERT INTO user_profiles")).
		WillReturnError(&gomysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"})

	err := store.Profiles().Create(context.Background(), &model.UserProfile{UserID: 404, Role: model.RoleMember})

	assert.True(t, errors.Is(err, interfaces.ErrMissingReference))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContributionScanValidation(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	validated := created.Add(48 * time.Hour)

	mock.ExpectQuery(q("FROM staff_contributions c") + ".*" + q("WHERE c.id = ?")).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"id", "staff_id", "name", "amount", "month", "object",
			"is_recorded", "created_at", "validated_at", "validated_by"}).
			AddRow(4, 2, "Amani Kabila", "10000.00", "2024-02", "", true, created, validated, 1))

	c, err := store.Contributions().GetByID(context.Background(), 4)

	require.NoError(t, err)
	assert.True(t, c.IsValidated())
	assert.Equal(t, 1, *c.ValidatedBy)
	assert.Equal(t, "Amani Kabila", c.StaffName)
	assert.True(t, c.Amount.Equal(decimal.NewFromInt(10000)))
}

func TestProfileDecodesBadges(t *testing.T) {
	store, mock := newMockStore(t)
	joined := time.Date(2023, 11, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(q("FROM user_profiles p") + ".*" + q("WHERE p.user_id = ?")).
		WithArgs(6).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "full_name", "email", "phone", "role",
			"is_active", "latitude", "longitude", "points", "level", "badges", "email_notifications", "joined_date"}).
			AddRow(6, "grace", "Grace Mbuyi", "grace@example.org", "", "volunteer", true, nil, nil,
				150, 2, `["new_member","bike_challenger"]`, true, joined))

	profile, err := store.Profiles().GetByUserID(context.Background(), 6)

	require.NoError(t, err)
	assert.Equal(t, []string{model.BadgeNewMember, model.BadgeBikeChallenger}, profile.Badges)
	assert.Equal(t, "Grace Mbuyi", profile.DisplayName())
}

func TestStatsQueries(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectQuery(q("SELECT COALESCE(SUM(amount), 0) FROM donations WHERE status = 'completed'")).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("12500.50"))
	mock.ExpectQuery(q("FROM user_profiles WHERE role IN (?, ?)")).
		WithArgs(model.RoleParent, model.RoleMember).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(9))
	mock.ExpectQuery(q("FROM events WHERE is_active = TRUE AND event_type = ?")).
		WithArgs(model.EventWorkshop).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	total, err := store.Stats().SumCompletedDonations(ctx)
	require.NoError(t, err)
	assert.Equal(t, "12500.5", total.String())

	families, err := store.Stats().CountProfilesByRole(ctx, model.RoleParent, model.RoleMember)
	require.NoError(t, err)
	assert.Equal(t, 9, families)

	workshops, err := store.Stats().CountActiveEvents(ctx, model.EventWorkshop)
	require.NoError(t, err)
	assert.Equal(t, 3, workshops)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsCountProfilesByRoleWithoutRoles(t *testing.T) {
	store, mock := newMockStore(t)

	n, err := store.Stats().CountProfilesByRole(context.Background())

	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxCommits(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(q("UPDATE donations SET status = ?")).
		WithArgs(model.DonationCompleted, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.WithinTx(context.Background(), func(tx interfaces.Store) error {
		return tx.Donations().UpdateStatus(context.Background(), 1, model.DonationCompleted)
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	store, mock := newMockStore(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := store.WithinTx(context.Background(), func(tx interfaces.Store) error {
		// 嵌套调用复用同一事务
		return tx.WithinTx(context.Background(), func(interfaces.Store) error {
			return boom
		})
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
