package memory

import (
	"aime-backend/internal/model"
	"context"
	"sort"
	"time"
)

type impactRepository struct {
	db *db
}

func copyImpact(p *model.ImpactPoint) *model.ImpactPoint {
	c := *p
	if p.RelatedID != nil {
		id := *p.RelatedID
		c.RelatedID = &id
	}
	if p.Latitude != nil {
		lat := *p.Latitude
		c.Latitude = &lat
	}
	if p.Longitude != nil {
		lng := *p.Longitude
		c.Longitude = &lng
	}
	return &c
}

func (r *impactRepository) find(key model.ImpactKey) *model.ImpactPoint {
	for _, p := range r.db.t.impacts {
		if p.RelatedID != nil && p.Type == key.Type && *p.RelatedID == key.RelatedID && p.RelatedModel == key.RelatedModel {
			return p
		}
	}
	return nil
}

func (r *impactRepository) Upsert(ctx context.Context, point *model.ImpactPoint) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := time.Now()
	point.UpdatedAt = now

	if point.RelatedID != nil {
		key := model.ImpactKey{Type: point.Type, RelatedID: *point.RelatedID, RelatedModel: point.RelatedModel}
		if existing := r.find(key); existing != nil {
			point.ID = existing.ID
			point.CreatedAt = existing.CreatedAt
			r.db.t.impacts[point.ID] = copyImpact(point)
			return nil
		}
	}

	if point.CreatedAt.IsZero() {
		point.CreatedAt = now
	}
	point.ID = r.db.t.nextID()
	r.db.t.impacts[point.ID] = copyImpact(point)
	return nil
}

func (r *impactRepository) DeleteByKey(ctx context.Context, key model.ImpactKey) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p := r.find(key)
	if p == nil {
		return false, nil
	}
	delete(r.db.t.impacts, p.ID)
	return true, nil
}

func (r *impactRepository) Create(ctx context.Context, point *model.ImpactPoint) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if point.RelatedID != nil {
		key := model.ImpactKey{Type: point.Type, RelatedID: *point.RelatedID, RelatedModel: point.RelatedModel}
		if r.find(key) != nil {
			return ErrDuplicate
		}
	}

	now := time.Now()
	if point.CreatedAt.IsZero() {
		point.CreatedAt = now
	}
	point.UpdatedAt = now
	point.ID = r.db.t.nextID()
	r.db.t.impacts[point.ID] = copyImpact(point)
	return nil
}

func (r *impactRepository) List(ctx context.Context) ([]*model.ImpactPoint, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	points := make([]*model.ImpactPoint, 0, len(r.db.t.impacts))
	for _, p := range r.db.t.impacts {
		points = append(points, copyImpact(p))
	}
	sort.Slice(points, func(i, j int) bool {
		return newerFirst(points[i].CreatedAt, points[j].CreatedAt, points[i].ID, points[j].ID)
	})
	return points, nil
}
