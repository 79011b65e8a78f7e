// Package memory 提供进程内的仓储实现，用于本地运行与测试。
package memory

import (
	"aime-backend/internal/model"
	"aime-backend/internal/repository/interfaces"
	"context"
	"errors"
	"sync"
)

// ErrDuplicate 违反唯一约束
var ErrDuplicate = errors.New("memory: duplicate key")

type tables struct {
	pk              int
	donations       map[int]*model.Donation
	projects        map[int]*model.Project
	events          map[int]*model.Event
	participations  map[int]*model.EventParticipation
	challenges      map[int]*model.MBCChallenge
	mbcParticipants map[int]*model.MBCParticipant
	contributions   map[int]*model.StaffContribution
	profiles        map[int]*model.UserProfile
	activities      map[int]*model.UserActivity
	notifications   map[int]*model.UserNotification
	dedupKeys       map[int]string
	impacts         map[int]*model.ImpactPoint
}

func newTables() *tables {
	return &tables{
		donations:       map[int]*model.Donation{},
		projects:        map[int]*model.Project{},
		events:          map[int]*model.Event{},
		participations:  map[int]*model.EventParticipation{},
		challenges:      map[int]*model.MBCChallenge{},
		mbcParticipants: map[int]*model.MBCParticipant{},
		contributions:   map[int]*model.StaffContribution{},
		profiles:        map[int]*model.UserProfile{},
		activities:      map[int]*model.UserActivity{},
		notifications:   map[int]*model.UserNotification{},
		dedupKeys:       map[int]string{},
		impacts:         map[int]*model.ImpactPoint{},
	}
}

func (t *tables) nextID() int {
	t.pk++
	return t.pk
}

func (t *tables) clone() *tables {
	c := newTables()
	c.pk = t.pk
	for id, v := range t.donations {
		c.donations[id] = copyDonation(v)
	}
	for id, v := range t.projects {
		p := *v
		c.projects[id] = &p
	}
	for id, v := range t.events {
		e := *v
		c.events[id] = &e
	}
	for id, v := range t.participations {
		p := *v
		c.participations[id] = &p
	}
	for id, v := range t.challenges {
		ch := *v
		c.challenges[id] = &ch
	}
	for id, v := range t.mbcParticipants {
		p := *v
		c.mbcParticipants[id] = &p
	}
	for id, v := range t.contributions {
		c.contributions[id] = copyContribution(v)
	}
	for id, v := range t.profiles {
		c.profiles[id] = copyProfile(v)
	}
	for id, v := range t.activities {
		a := *v
		c.activities[id] = &a
	}
	for id, v := range t.notifications {
		n := *v
		c.notifications[id] = &n
	}
	for id, v := range t.dedupKeys {
		c.dedupKeys[id] = v
	}
	for id, v := range t.impacts {
		c.impacts[id] = copyImpact(v)
	}
	return c
}

type db struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	t    *tables
}

// Store 内存仓储集合。事务之间串行执行，fn 返回错误时恢复到事务开始前的快照。
type Store struct {
	db   *db
	inTx bool
}

// NewStore 创建空的内存仓储
func NewStore() *Store {
	return &Store{db: &db{t: newTables()}}
}

func (s *Store) Donations() interfaces.DonationRepository {
	return &donationRepository{db: s.db}
}

func (s *Store) Projects() interfaces.ProjectRepository {
	return &projectRepository{db: s.db}
}

func (s *Store) Events() interfaces.EventRepository {
	return &eventRepository{db: s.db}
}

func (s *Store) Participations() interfaces.ParticipationRepository {
	return &participationRepository{db: s.db}
}

func (s *Store) Challenges() interfaces.ChallengeRepository {
	return &challengeRepository{db: s.db}
}

func (s *Store) Contributions() interfaces.ContributionRepository {
	return &contributionRepository{db: s.db}
}

func (s *Store) Profiles() interfaces.ProfileRepository {
	return &profileRepository{db: s.db}
}

func (s *Store) Activities() interfaces.ActivityRepository {
	return &activityRepository{db: s.db}
}

func (s *Store) Notifications() interfaces.NotificationRepository {
	return &notificationRepository{db: s.db}
}

func (s *Store) Impacts() interfaces.ImpactRepository {
	return &impactRepository{db: s.db}
}

func (s *Store) Stats() interfaces.StatsRepository {
	return &statsRepository{db: s.db}
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx interfaces.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	s.db.txMu.Lock()
	defer s.db.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.db.mu.RLock()
	snapshot := s.db.t.clone()
	s.db.mu.RUnlock()

	if err := fn(&Store{db: s.db, inTx: true}); err != nil {
		s.db.mu.Lock()
		s.db.t = snapshot
		s.db.mu.Unlock()
		return err
	}
	return nil
}

// AddProject 写入项目，ID 为 0 时自动分配
func (s *Store) AddProject(project *model.Project) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if project.ID == 0 {
		project.ID = s.db.t.nextID()
	}
	p := *project
	s.db.t.projects[p.ID] = &p
}

// AddEvent 写入活动，ID 为 0 时自动分配
func (s *Store) AddEvent(event *model.Event) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if event.ID == 0 {
		event.ID = s.db.t.nextID()
	}
	e := *event
	s.db.t.events[e.ID] = &e
}

// AddChallenge 写入骑行挑战，ID 为 0 时自动分配
func (s *Store) AddChallenge(challenge *model.MBCChallenge) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if challenge.ID == 0 {
		challenge.ID = s.db.t.nextID()
	}
	c := *challenge
	s.db.t.challenges[c.ID] = &c
}

var _ interfaces.Store = (*Store)(nil)
