package memory

import (
	"aime-backend/internal/model"
	"context"
	"sort"
	"time"
)

type eventRepository struct {
	db *db
}

func (r *eventRepository) GetByID(ctx context.Context, id int) (*model.Event, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if e, ok := r.db.t.events[id]; ok {
		c := *e
		return &c, nil
	}
	return nil, nil
}

func (r *eventRepository) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]*model.Event, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var events []*model.Event
	for _, e := range r.db.t.events {
		if e.IsActive && !e.Date.Before(from) {
			c := *e
			events = append(events, &c)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date) })
	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

type participationRepository struct {
	db *db
}

// withTitle 复制报名记录并补上活动标题
func (r *participationRepository) withTitle(p *model.EventParticipation) *model.EventParticipation {
	c := *p
	if e, ok := r.db.t.events[p.EventID]; ok {
		c.EventTitle = e.Title
	}
	return &c
}

func (r *participationRepository) GetOrCreate(ctx context.Context, participation *model.EventParticipation) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, p := range r.db.t.participations {
		if p.UserID == participation.UserID && p.EventID == participation.EventID {
			*participation = *r.withTitle(p)
			return false, nil
		}
	}

	if participation.RegistrationDate.IsZero() {
		participation.RegistrationDate = time.Now()
	}
	participation.ID = r.db.t.nextID()
	stored := *participation
	r.db.t.participations[stored.ID] = &stored
	*participation = *r.withTitle(&stored)
	return true, nil
}

func (r *participationRepository) GetByID(ctx context.Context, id int) (*model.EventParticipation, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if p, ok := r.db.t.participations[id]; ok {
		return r.withTitle(p), nil
	}
	return nil, nil
}

func (r *participationRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if p, ok := r.db.t.participations[id]; ok {
		p.Status = status
	}
	return nil
}

func (r *participationRepository) ListByUser(ctx context.Context, userID int) ([]*model.EventParticipation, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var participations []*model.EventParticipation
	for _, p := range r.db.t.participations {
		if p.UserID == userID {
			participations = append(participations, r.withTitle(p))
		}
	}
	sort.Slice(participations, func(i, j int) bool {
		return newerFirst(participations[i].RegistrationDate, participations[j].RegistrationDate,
			participations[i].ID, participations[j].ID)
	})
	return participations, nil
}

func (r *participationRepository) CountActiveByUser(ctx context.Context, userID int) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	count := 0
	for _, p := range r.db.t.participations {
		if p.UserID == userID && p.IsActive() {
			count++
		}
	}
	return count, nil
}

type challengeRepository struct {
	db *db
}

func (r *challengeRepository) GetByID(ctx context.Context, id int) (*model.MBCChallenge, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if c, ok := r.db.t.challenges[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *challengeRepository) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]*model.MBCChallenge, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var challenges []*model.MBCChallenge
	for _, c := range r.db.t.challenges {
		if c.IsActive && !c.Date.Before(from) {
			cp := *c
			challenges = append(challenges, &cp)
		}
	}
	sort.Slice(challenges, func(i, j int) bool { return challenges[i].Date.Before(challenges[j].Date) })
	if len(challenges) > limit {
		challenges = challenges[:limit]
	}
	return challenges, nil
}

func (r *challengeRepository) CountConfirmed(ctx context.Context, challengeID int) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	count := 0
	for _, p := range r.db.t.mbcParticipants {
		if p.ChallengeID == challengeID && p.Status == model.MBCConfirmed {
			count++
		}
	}
	return count, nil
}

func (r *challengeRepository) FindParticipant(ctx context.Context, challengeID int, email string) (*model.MBCParticipant, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, p := range r.db.t.mbcParticipants {
		if p.ChallengeID == challengeID && p.ParticipantEmail == email {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

func (r *challengeRepository) CreateParticipant(ctx context.Context, participant *model.MBCParticipant) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if participant.RegisteredAt.IsZero() {
		participant.RegisteredAt = time.Now()
	}
	participant.ID = r.db.t.nextID()
	c := *participant
	r.db.t.mbcParticipants[c.ID] = &c
	return nil
}

func (r *challengeRepository) GetParticipant(ctx context.Context, id int) (*model.MBCParticipant, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if p, ok := r.db.t.mbcParticipants[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, nil
}

func (r *challengeRepository) UpdateParticipantStatus(ctx context.Context, id int, status string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if p, ok := r.db.t.mbcParticipants[id]; ok {
		p.Status = status
	}
	return nil
}

func (r *challengeRepository) CountConfirmedByEmail(ctx context.Context, email string) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	count := 0
	for _, p := range r.db.t.mbcParticipants {
		if p.ParticipantEmail == email && p.Status == model.MBCConfirmed {
			count++
		}
	}
	return count, nil
}
