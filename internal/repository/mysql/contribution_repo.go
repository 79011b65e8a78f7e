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

type contributionRepository struct {
	q dbtx
}

const contributionSelect = `SELECT c.id, c.staff_id,
	COALESCE(NULLIF(TRIM(CONCAT(u.first_name, ' ', u.last_name)), ''), u.username),
	c.amount, c.month, c.object, c.is_recorded, c.created_at, c.validated_at, c.validated_by
	FROM staff_contributions c
	JOIN users u ON u.id = c.staff_id`

func (r *contributionRepository) Create(ctx context.Context, contribution *model.StaffContribution) error {
	if contribution.CreatedAt.IsZero() {
		contribution.CreatedAt = time.Now()
	}

	result, err := r.q.ExecContext(ctx,
		`INSERT INTO staff_contributions (staff_id, amount, month, object, is_recorded, created_at, validated_at, validated_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		contribution.StaffID, contribution.Amount, contribution.Month, contribution.Object,
		contribution.IsRecorded, contribution.CreatedAt, contribution.ValidatedAt, contribution.ValidatedBy)
	if err != nil {
		util.Logger.Error("创建员工缴费记录失败", zap.Error(err), zap.Int("staff_id", contribution.StaffID))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	contribution.ID = int(id)
	return nil
}

func (r *contributionRepository) GetByID(ctx context.Context, id int) (*model.StaffContribution, error) {
	c, err := scanContribution(r.q.QueryRowContext(ctx, contributionSelect+` WHERE c.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (r *contributionRepository) MarkRecorded(ctx context.Context, id int, validatedAt time.Time, validatedBy int) error {
	// 已有验证时间时保留原值
	_, err := r.q.ExecContext(ctx,
		`UPDATE staff_contributions
		 SET is_recorded = TRUE, validated_at = COALESCE(validated_at, ?), validated_by = ?
		 WHERE id = ?`,
		validatedAt, validatedBy, id)
	if err != nil {
		util.Logger.Error("更新员工缴费验证状态失败", zap.Error(err), zap.Int("contribution_id", id))
	}
	return err
}

func (r *contributionRepository) List(ctx context.Context, staffID int) ([]*model.StaffContribution, error) {
	query := contributionSelect
	var args []interface{}
	if staffID != 0 {
		query += ` WHERE c.staff_id = ?`
		args = append(args, staffID)
	}
	query += ` ORDER BY c.created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contributions []*model.StaffContribution
	for rows.Next() {
		c, err := scanContribution(rows)
		if err != nil {
			return nil, err
		}
		contributions = append(contributions, c)
	}
	return contributions, rows.Err()
}

func scanContribution(s scanner) (*model.StaffContribution, error) {
	var (
		c           model.StaffContribution
		validatedAt sql.NullTime
		validatedBy sql.NullInt64
	)
	err := s.Scan(&c.ID, &c.StaffID, &c.StaffName, &c.Amount, &c.Month, &c.Object,
		&c.IsRecorded, &c.CreatedAt, &validatedAt, &validatedBy)
	if err != nil {
		return nil, err
	}
	if validatedAt.Valid {
		t := validatedAt.Time
		c.ValidatedAt = &t
	}
	if validatedBy.Valid {
		v := int(validatedBy.Int64)
		c.ValidatedBy = &v
	}
	return &c, nil
}
