package memory

import (
	"aime-backend/internal/model"
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type donationRepository struct {
	db *db
}

func copyDonation(d *model.Donation) *model.Donation {
	c := *d
	if d.ProjectID != nil {
		id := *d.ProjectID
		c.ProjectID = &id
	}
	return &c
}

func (r *donationRepository) Create(ctx context.Context, donation *model.Donation) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if donation.CreatedAt.IsZero() {
		donation.CreatedAt = time.Now()
	}
	donation.ID = r.db.t.nextID()
	r.db.t.donations[donation.ID] = copyDonation(donation)
	return nil
}

func (r *donationRepository) GetByID(ctx context.Context, id int) (*model.Donation, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if d, ok := r.db.t.donations[id]; ok {
		return copyDonation(d), nil
	}
	return nil, nil
}

func (r *donationRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if d, ok := r.db.t.donations[id]; ok {
		d.Status = status
	}
	return nil
}

func (r *donationRepository) ListByEmail(ctx context.Context, email string) ([]*model.Donation, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var donations []*model.Donation
	for _, d := range r.db.t.donations {
		if d.DonorEmail == email {
			donations = append(donations, copyDonation(d))
		}
	}
	sort.Slice(donations, func(i, j int) bool {
		return newerFirst(donations[i].CreatedAt, donations[j].CreatedAt, donations[i].ID, donations[j].ID)
	})
	return donations, nil
}

func (r *donationRepository) CompletedTotalsByEmail(ctx context.Context, email string) (decimal.Decimal, int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	total, count := decimal.Zero, 0
	for _, d := range r.db.t.donations {
		if d.DonorEmail == email && d.IsCompleted() {
			total = total.Add(d.Amount)
			count++
		}
	}
	return total, count, nil
}

func (r *donationRepository) ListRecentCompletedByProject(ctx context.Context, projectID, limit int) ([]*model.Donation, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var donations []*model.Donation
	for _, d := range r.db.t.donations {
		if d.ProjectID != nil && *d.ProjectID == projectID && d.IsCompleted() {
			donations = append(donations, copyDonation(d))
		}
	}
	sort.Slice(donations, func(i, j int) bool {
		return newerFirst(donations[i].CreatedAt, donations[j].CreatedAt, donations[i].ID, donations[j].ID)
	})
	if len(donations) > limit {
		donations = donations[:limit]
	}
	return donations, nil
}

type projectRepository struct {
	db *db
}

func (r *projectRepository) GetByID(ctx context.Context, id int) (*model.Project, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if p, ok := r.db.t.projects[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, nil
}

func (r *projectRepository) GetBySlug(ctx context.Context, slug string) (*model.Project, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, p := range r.db.t.projects {
		if p.Slug == slug {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

func (r *projectRepository) ListActive(ctx context.Context) ([]*model.Project, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var projects []*model.Project
	for _, p := range r.db.t.projects {
		if p.Status == model.ProjectActive {
			c := *p
			projects = append(projects, &c)
		}
	}
	sort.Slice(projects, func(i, j int) bool {
		return newerFirst(projects[i].CreatedAt, projects[j].CreatedAt, projects[i].ID, projects[j].ID)
	})
	return projects, nil
}

func (r *projectRepository) AddRaisedAmount(ctx context.Context, id int, delta decimal.Decimal) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if p, ok := r.db.t.projects[id]; ok {
		p.RaisedAmount = decimal.Max(p.RaisedAmount.Add(delta), decimal.Zero)
	}
	return nil
}

// newerFirst 按时间倒序，时间相同时按 ID 倒序
func newerFirst(a, b time.Time, idA, idB int) bool {
	if a.Equal(b) {
		return idA > idB
	}
	return a.After(b)
}
