package mysql

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

type statsRepository struct {
	q dbtx
}

func (r *statsRepository) SumCompletedDonations(ctx context.Context) (decimal.Decimal, error) {
	return r.sum(ctx, `SELECT COALESCE(SUM(amount), 0) FROM donations WHERE status = 'completed'`)
}

func (r *statsRepository) SumRecordedContributions(ctx context.Context) (decimal.Decimal, error) {
	return r.sum(ctx, `SELECT COALESCE(SUM(amount), 0) FROM staff_contributions WHERE is_recorded = TRUE`)
}

func (r *statsRepository) CountProfilesByRole(ctx context.Context, roles ...string) (int, error) {
	if len(roles) == 0 {
		return 0, nil
	}
	return r.count(ctx, `SELECT COUNT(*) FROM user_profiles WHERE role IN (`+placeholders(len(roles))+`)`, toArgs(roles)...)
}

func (r *statsRepository) CountMBCParticipantsByStatus(ctx context.Context, status string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM mbc_participants WHERE status = ?`, status)
}

func (r *statsRepository) CountProjectsByStatus(ctx context.Context, status string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM projects WHERE status = ?`, status)
}

func (r *statsRepository) CountActiveEvents(ctx context.Context, eventType string) (int, error) {
	if eventType == "" {
		return r.count(ctx, `SELECT COUNT(*) FROM events WHERE is_active = TRUE`)
	}
	return r.count(ctx, `SELECT COUNT(*) FROM events WHERE is_active = TRUE AND event_type = ?`, eventType)
}

func (r *statsRepository) CountParticipationsByStatus(ctx context.Context, statuses ...string) (int, error) {
	if len(statuses) == 0 {
		return 0, nil
	}
	return r.count(ctx,
		`SELECT COUNT(*) FROM event_participations WHERE status IN (`+placeholders(len(statuses))+`)`,
		toArgs(statuses)...)
}

func (r *statsRepository) CountDistinctProfileLocations(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM (
		SELECT DISTINCT latitude, longitude FROM user_profiles
		WHERE latitude IS NOT NULL AND longitude IS NOT NULL) t`)
}

func (r *statsRepository) CountDistinctImpactLocations(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM (
		SELECT DISTINCT latitude, longitude FROM impact_points
		WHERE latitude IS NOT NULL AND longitude IS NOT NULL) t`)
}

func (r *statsRepository) CountActiveUsers(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users WHERE is_active = TRUE`)
}

func (r *statsRepository) CountDistinctDonors(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(DISTINCT donor_email) FROM donations`)
}

func (r *statsRepository) count(ctx context.Context, query string, args ...interface{}) (int, error) {
	var n int
	if err := r.q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *statsRepository) sum(ctx context.Context, query string) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.q.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func toArgs(values []string) []interface{} {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
