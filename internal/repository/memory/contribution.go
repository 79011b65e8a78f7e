package memory

import (
	"aime-backend/internal/model"
	"context"
	"sort"
	"time"
)

type contributionRepository struct {
	db *db
}

func copyContribution(c *model.StaffContribution) *model.StaffContribution {
	cp := *c
	if c.ValidatedAt != nil {
		t := *c.ValidatedAt
		cp.ValidatedAt = &t
	}
	if c.ValidatedBy != nil {
		v := *c.ValidatedBy
		cp.ValidatedBy = &v
	}
	return &cp
}

// withStaffName 复制缴费记录并补上员工姓名
func (r *contributionRepository) withStaffName(c *model.StaffContribution) *model.StaffContribution {
	cp := copyContribution(c)
	if p, ok := r.db.t.profiles[c.StaffID]; ok {
		cp.StaffName = p.DisplayName()
	}
	return cp
}

func (r *contributionRepository) Create(ctx context.Context, contribution *model.StaffContribution) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if contribution.CreatedAt.IsZero() {
		contribution.CreatedAt = time.Now()
	}
	contribution.ID = r.db.t.nextID()
	r.db.t.contributions[contribution.ID] = copyContribution(contribution)
	return nil
}

func (r *contributionRepository) GetByID(ctx context.Context, id int) (*model.StaffContribution, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if c, ok := r.db.t.contributions[id]; ok {
		return r.withStaffName(c), nil
	}
	return nil, nil
}

func (r *contributionRepository) MarkRecorded(ctx context.Context, id int, validatedAt time.Time, validatedBy int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c, ok := r.db.t.contributions[id]
	if !ok {
		return nil
	}
	c.IsRecorded = true
	if c.ValidatedAt == nil {
		c.ValidatedAt = &validatedAt
	}
	c.ValidatedBy = &validatedBy
	return nil
}

func (r *contributionRepository) List(ctx context.Context, staffID int) ([]*model.StaffContribution, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var contributions []*model.StaffContribution
	for _, c := range r.db.t.contributions {
		if staffID == 0 || c.StaffID == staffID {
			contributions = append(contributions, r.withStaffName(c))
		}
	}
	sort.Slice(contributions, func(i, j int) bool {
		return newerFirst(contributions[i].CreatedAt, contributions[j].CreatedAt, contributions[i].ID, contributions[j].ID)
	})
	return contributions, nil
}
