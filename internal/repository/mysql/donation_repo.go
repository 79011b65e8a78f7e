package mysql

import (
	"aime-backend/internal/model"
	"aime-backend/internal/util"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type donationRepository struct {
	q dbtx
}

const donationColumns = `id, donor_name, donor_email, donor_phone, amount, currency, project_id,
	COALESCE(message, ''), is_anonymous, status, transaction_id, created_at`

func (r *donationRepository) Create(ctx context.Context, donation *model.Donation) error {
	if donation.CreatedAt.IsZero() {
		donation.CreatedAt = time.Now()
	}

	query := `INSERT INTO donations (donor_name, donor_email, donor_phone, amount, currency, project_id,
			  message, is_anonymous, status, transaction_id, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.q.ExecContext(ctx, query,
		donation.DonorName,
		donation.DonorEmail,
		donation.DonorPhone,
		donation.Amount,
		donation.Currency,
		donation.ProjectID,
		donation.Message,
		donation.IsAnonymous,
		donation.Status,
		donation.TransactionID,
		donation.CreatedAt)
	if err != nil {
		util.Logger.Error("创建捐款记录失败",
			zap.Error(err),
			zap.String("donor_email", donation.DonorEmail),
			zap.String("error_type", fmt.Sprintf("%T", err)))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		util.Logger.Error("获取捐款记录ID失败", zap.Error(err))
		return err
	}
	donation.ID = int(id)
	return nil
}

func (r *donationRepository) GetByID(ctx context.Context, id int) (*model.Donation, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+donationColumns+` FROM donations WHERE id = ?`, id)
	donation, err := scanDonation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return donation, err
}

func (r *donationRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	_, err := r.q.ExecContext(ctx, `UPDATE donations SET status = ? WHERE id = ?`, status, id)
	return err
}

func (r *donationRepository) ListByEmail(ctx context.Context, email string) ([]*model.Donation, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+donationColumns+` FROM donations WHERE donor_email = ? ORDER BY created_at DESC`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donations []*model.Donation
	for rows.Next() {
		donation, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		donations = append(donations, donation)
	}
	return donations, rows.Err()
}

func (r *donationRepository) CompletedTotalsByEmail(ctx context.Context, email string) (decimal.Decimal, int, error) {
	var (
		total decimal.Decimal
		count int
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0), COUNT(*) FROM donations WHERE donor_email = ? AND status = ?`,
		email, model.DonationCompleted).Scan(&total, &count)
	return total, count, err
}

func (r *donationRepository) ListRecentCompletedByProject(ctx context.Context, projectID, limit int) ([]*model.Donation, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+donationColumns+` FROM donations WHERE project_id = ? AND status = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		projectID, model.DonationCompleted, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donations []*model.Donation
	for rows.Next() {
		donation, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		donations = append(donations, donation)
	}
	return donations, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDonation(s scanner) (*model.Donation, error) {
	var d model.Donation
	err := s.Scan(&d.ID, &d.DonorName, &d.DonorEmail, &d.DonorPhone, &d.Amount, &d.Currency,
		&d.ProjectID, &d.Message, &d.IsAnonymous, &d.Status, &d.TransactionID, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

type projectRepository struct {
	q dbtx
}

const projectColumns = `id, name, slug, description, goal_amount, raised_amount, status, is_featured, created_at`

func (r *projectRepository) GetByID(ctx context.Context, id int) (*model.Project, error) {
	return r.getOne(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
}

func (r *projectRepository) GetBySlug(ctx context.Context, slug string) (*model.Project, error) {
	return r.getOne(ctx, `SELECT `+projectColumns+` FROM projects WHERE slug = ?`, slug)
}

func (r *projectRepository) getOne(ctx context.Context, query string, arg interface{}) (*model.Project, error) {
	project, err := scanProject(r.q.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return project, err
}

func (r *projectRepository) ListActive(ctx context.Context) ([]*model.Project, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE status = ? ORDER BY created_at DESC`, model.ProjectActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*model.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

func (r *projectRepository) AddRaisedAmount(ctx context.Context, id int, delta decimal.Decimal) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE projects SET raised_amount = GREATEST(raised_amount + ?, 0) WHERE id = ?`, delta, id)
	if err != nil {
		util.Logger.Error("更新项目筹款金额失败", zap.Error(err), zap.Int("project_id", id))
	}
	return err
}

func scanProject(s scanner) (*model.Project, error) {
	var p model.Project
	err := s.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.GoalAmount, &p.RaisedAmount,
		&p.Status, &p.IsFeatured, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
