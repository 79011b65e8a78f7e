package mysql

import (
	"aime-backend/internal/model"
	"aime-backend/internal/util"
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"
)

type eventRepository struct {
	q dbtx
}

const eventColumns = `id, title, slug, event_type, date, location, is_active, created_at`

func (r *eventRepository) GetByID(ctx context.Context, id int) (*model.Event, error) {
	event, err := scanEvent(r.q.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return event, err
}

func (r *eventRepository) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]*model.Event, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE is_active = TRUE AND date >= ? ORDER BY date ASC LIMIT ?`,
		from, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*model.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func scanEvent(s scanner) (*model.Event, error) {
	var e model.Event
	if err := s.Scan(&e.ID, &e.Title, &e.Slug, &e.EventType, &e.Date, &e.Location, &e.IsActive, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

type participationRepository struct {
	q dbtx
}

const participationSelect = `SELECT p.id, p.user_id, p.event_id, e.title, p.status, COALESCE(p.notes, ''), p.registration_date
	FROM event_participations p
	JOIN events e ON e.id = p.event_id`

func (r *participationRepository) GetOrCreate(ctx context.Context, participation *model.EventParticipation) (bool, error) {
	if participation.RegistrationDate.IsZero() {
		participation.RegistrationDate = time.Now()
	}

	// 依赖 (user_id, event_id) 唯一键，重复报名时读取已有记录
	created := true
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO event_participations (user_id, event_id, status, registration_date, notes)
		 VALUES (?, ?, ?, ?, ?)`,
		participation.UserID, participation.EventID, participation.Status,
		participation.RegistrationDate, participation.Notes)
	if err != nil {
		if !isDuplicateEntry(err) {
			util.Logger.Error("创建活动报名失败",
				zap.Error(err),
				zap.Int("user_id", participation.UserID),
				zap.Int("event_id", participation.EventID))
			return false, translateWriteError(err)
		}
		created = false
	}

	existing, err := scanParticipation(r.q.QueryRowContext(ctx,
		participationSelect+` WHERE p.user_id = ? AND p.event_id = ?`,
		participation.UserID, participation.EventID))
	if err != nil {
		return false, err
	}
	*participation = *existing
	return created, nil
}

func (r *participationRepository) GetByID(ctx context.Context, id int) (*model.EventParticipation, error) {
	p, err := scanParticipation(r.q.QueryRowContext(ctx, participationSelect+` WHERE p.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *participationRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	_, err := r.q.ExecContext(ctx, `UPDATE event_participations SET status = ? WHERE id = ?`, status, id)
	return err
}

func (r *participationRepository) ListByUser(ctx context.Context, userID int) ([]*model.EventParticipation, error) {
	rows, err := r.q.QueryContext(ctx,
		participationSelect+` WHERE p.user_id = ? ORDER BY p.registration_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participations []*model.EventParticipation
	for rows.Next() {
		p, err := scanParticipation(rows)
		if err != nil {
			return nil, err
		}
		participations = append(participations, p)
	}
	return participations, rows.Err()
}

func (r *participationRepository) CountActiveByUser(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM event_participations WHERE user_id = ? AND status IN (?, ?)`,
		userID, model.ParticipationConfirmed, model.ParticipationAttended).Scan(&count)
	return count, err
}

func scanParticipation(s scanner) (*model.EventParticipation, error) {
	var p model.EventParticipation
	if err := s.Scan(&p.ID, &p.UserID, &p.EventID, &p.EventTitle, &p.Status, &p.Notes, &p.RegistrationDate); err != nil {
		return nil, err
	}
	return &p, nil
}

type challengeRepository struct {
	q dbtx
}

const (
	challengeColumns      = `id, name, slug, date, location, max_participants, is_active`
	mbcParticipantColumns = `id, challenge_id, participant_name, participant_email, participant_phone, age, status, registered_at`
)

func (r *challengeRepository) GetByID(ctx context.Context, id int) (*model.MBCChallenge, error) {
	c, err := scanChallenge(r.q.QueryRowContext(ctx, `SELECT `+challengeColumns+` FROM mbc_challenges WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (r *challengeRepository) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]*model.MBCChallenge, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+challengeColumns+` FROM mbc_challenges WHERE is_active = TRUE AND date >= ? ORDER BY date ASC LIMIT ?`,
		from, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var challenges []*model.MBCChallenge
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, c)
	}
	return challenges, rows.Err()
}

func scanChallenge(s scanner) (*model.MBCChallenge, error) {
	var c model.MBCChallenge
	if err := s.Scan(&c.ID, &c.Name, &c.Slug, &c.Date, &c.Location, &c.MaxParticipants, &c.IsActive); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *challengeRepository) CountConfirmed(ctx context.Context, challengeID int) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM mbc_participants WHERE challenge_id = ? AND status = ?`,
		challengeID, model.MBCConfirmed).Scan(&count)
	return count, err
}

func (r *challengeRepository) FindParticipant(ctx context.Context, challengeID int, email string) (*model.MBCParticipant, error) {
	p, err := scanMBCParticipant(r.q.QueryRowContext(ctx,
		`SELECT `+mbcParticipantColumns+` FROM mbc_participants WHERE challenge_id = ? AND participant_email = ? LIMIT 1`,
		challengeID, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *challengeRepository) CreateParticipant(ctx context.Context, participant *model.MBCParticipant) error {
	if participant.RegisteredAt.IsZero() {
		participant.RegisteredAt = time.Now()
	}
	result, err := r.q.ExecContext(ctx,
		`INSERT INTO mbc_participants (challenge_id, participant_name, participant_email, participant_phone, age, status, registered_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		participant.ChallengeID, participant.ParticipantName, participant.ParticipantEmail,
		participant.ParticipantPhone, participant.Age, participant.Status, participant.RegisteredAt)
	if err != nil {
		util.Logger.Error("创建骑行挑战参与者失败", zap.Error(err), zap.Int("challenge_id", participant.ChallengeID))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	participant.ID = int(id)
	return nil
}

func (r *challengeRepository) GetParticipant(ctx context.Context, id int) (*model.MBCParticipant, error) {
	p, err := scanMBCParticipant(r.q.QueryRowContext(ctx,
		`SELECT `+mbcParticipantColumns+` FROM mbc_participants WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *challengeRepository) UpdateParticipantStatus(ctx context.Context, id int, status string) error {
	_, err := r.q.ExecContext(ctx, `UPDATE mbc_participants SET status = ? WHERE id = ?`, status, id)
	return err
}

func (r *challengeRepository) CountConfirmedByEmail(ctx context.Context, email string) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM mbc_participants WHERE participant_email = ? AND status = ?`,
		email, model.MBCConfirmed).Scan(&count)
	return count, err
}

func scanMBCParticipant(s scanner) (*model.MBCParticipant, error) {
	var p model.MBCParticipant
	err := s.Scan(&p.ID, &p.ChallengeID, &p.ParticipantName, &p.ParticipantEmail,
		&p.ParticipantPhone, &p.Age, &p.Status, &p.RegisteredAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
