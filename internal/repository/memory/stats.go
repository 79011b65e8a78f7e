package memory

import (
	"context"

	"github.com/shopspring/decimal"
)

type statsRepository struct {
	db *db
}

type location struct {
	lat, lng float64
}

func (r *statsRepository) SumCompletedDonations(ctx context.Context) (decimal.Decimal, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	total := decimal.Zero
	for _, d := range r.db.t.donations {
		if d.IsCompleted() {
			total = total.Add(d.Amount)
		}
	}
	return total, nil
}

func (r *statsRepository) SumRecordedContributions(ctx context.Context) (decimal.Decimal, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	total := decimal.Zero
	for _, c := range r.db.t.contributions {
		if c.IsRecorded {
			total = total.Add(c.Amount)
		}
	}
	return total, nil
}

func (r *statsRepository) CountProfilesByRole(ctx context.Context, roles ...string) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	count := 0
	for _, p := range r.db.t.profiles {
		if contains(roles, p.Role) {
			count++
		}
	}
	return count, nil
}

func (r *statsRepository) CountMBCParticipantsByStatus(ctx context.Context, status string) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	count := 0
	for _, p := range r.db.t.mbcParticipants {
		if p.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *statsRepository) CountProjectsByStatus(ctx context.Context, status string) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	count := 0
	for _, p := range r.db.t.projects {
		if p.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *statsRepository) CountActiveEvents(ctx context.Context, eventType string) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	count := 0
	for _, e := range r.db.t.events {
		if e.IsActive && (eventType == "" || e.EventType == eventType) {
			count++
		}
	}
	return count, nil
}

func (r *statsRepository) CountParticipationsByStatus(ctx context.Context, statuses ...string) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	count := 0
	for _, p := range r.db.t.participations {
		if contains(statuses, p.Status) {
			count++
		}
	}
	return count, nil
}

func (r *statsRepository) CountDistinctProfileLocations(ctx context.Context) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	seen := map[location]struct{}{}
	for _, p := range r.db.t.profiles {
		if p.Latitude != nil && p.Longitude != nil {
			seen[location{*p.Latitude, *p.Longitude}] = struct{}{}
		}
	}
	return len(seen), nil
}

func (r *statsRepository) CountDistinctImpactLocations(ctx context.Context) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	seen := map[location]struct{}{}
	for _, p := range r.db.t.impacts {
		if p.Latitude != nil && p.Longitude != nil {
			seen[location{*p.Latitude, *p.Longitude}] = struct{}{}
		}
	}
	return len(seen), nil
}

func (r *statsRepository) CountActiveUsers(ctx context.Context) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	count := 0
	for _, p := range r.db.t.profiles {
		if p.IsActive {
			count++
		}
	}
	return count, nil
}

func (r *statsRepository) CountDistinctDonors(ctx context.Context) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	seen := map[string]struct{}{}
	for _, d := range r.db.t.donations {
		seen[d.DonorEmail] = struct{}{}
	}
	return len(seen), nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

