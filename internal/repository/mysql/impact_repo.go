package mysql

import (
	"aime-backend/internal/model"
	"aime-backend/internal/util"
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

type impactRepository struct {
	q dbtx
}

const impactColumns = `id, type, related_id, related_model, latitude, longitude, description, value, status, created_at, updated_at`

// Upsert 依赖 uq_impact_source 唯一键，同一来源并发保存也只会得到一行
func (r *impactRepository) Upsert(ctx context.Context, point *model.ImpactPoint) error {
	now := time.Now()
	if point.CreatedAt.IsZero() {
		point.CreatedAt = now
	}
	point.UpdatedAt = now

	query := `INSERT INTO impact_points (type, related_id, related_model, latitude, longitude, description, value, status, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
				id = LAST_INSERT_ID(id),
				latitude = VALUES(latitude),
				longitude = VALUES(longitude),
				description = VALUES(description),
				value = VALUES(value),
				status = VALUES(status),
				updated_at = VALUES(updated_at)`

	result, err := r.q.ExecContext(ctx, query,
		point.Type, point.RelatedID, point.RelatedModel, point.Latitude, point.Longitude,
		point.Description, point.Value, point.Status, point.CreatedAt, point.UpdatedAt)
	if err != nil {
		util.Logger.Error("写入影响点失败",
			zap.Error(err),
			zap.String("type", point.Type),
			zap.String("related_model", point.RelatedModel))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	point.ID = int(id)
	return nil
}

func (r *impactRepository) DeleteByKey(ctx context.Context, key model.ImpactKey) (bool, error) {
	result, err := r.q.ExecContext(ctx,
		`DELETE FROM impact_points WHERE type = ? AND related_id = ? AND related_model = ?`,
		key.Type, key.RelatedID, key.RelatedModel)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Create 写入手工创建的影响点
func (r *impactRepository) Create(ctx context.Context, point *model.ImpactPoint) error {
	now := time.Now()
	if point.CreatedAt.IsZero() {
		point.CreatedAt = now
	}
	point.UpdatedAt = now

	result, err := r.q.ExecContext(ctx,
		`INSERT INTO impact_points (type, related_id, related_model, latitude, longitude, description, value, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		point.Type, point.RelatedID, point.RelatedModel, point.Latitude, point.Longitude,
		point.Description, point.Value, point.Status, point.CreatedAt, point.UpdatedAt)
	if err != nil {
		util.Logger.Error("创建影响点失败", zap.Error(err), zap.String("type", point.Type))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	point.ID = int(id)
	return nil
}

func (r *impactRepository) List(ctx context.Context) ([]*model.ImpactPoint, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+impactColumns+` FROM impact_points ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []*model.ImpactPoint
	for rows.Next() {
		point, err := scanImpactPoint(rows)
		if err != nil {
			return nil, err
		}
		points = append(points, point)
	}
	return points, rows.Err()
}

func scanImpactPoint(s scanner) (*model.ImpactPoint, error) {
	var (
		p         model.ImpactPoint
		relatedID sql.NullInt64
	)
	err := s.Scan(&p.ID, &p.Type, &relatedID, &p.RelatedModel, &p.Latitude, &p.Longitude,
		&p.Description, &p.Value, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if relatedID.Valid {
		id := int(relatedID.Int64)
		p.RelatedID = &id
	}
	return &p, nil
}
