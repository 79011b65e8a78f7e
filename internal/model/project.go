package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 项目状态
const (
	ProjectPlanning  = "planning"
	ProjectActive    = "active"
	ProjectCompleted = "completed"
	ProjectSuspended = "suspended"
)

// Project 机构项目
type Project struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	Description  string          `json:"description"`
	GoalAmount   decimal.Decimal `json:"goal_amount"`
	RaisedAmount decimal.Decimal `json:"raised_amount"`
	Status       string          `json:"status"`
	IsFeatured   bool            `json:"is_featured"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Progress 筹款进度（百分比，最高 100）
func (p *Project) Progress() float64 {
	if !p.GoalAmount.IsPositive() {
		return 0
	}
	progress := p.RaisedAmount.Div(p.GoalAmount).Mul(decimal.NewFromInt(100))
	if progress.GreaterThan(decimal.NewFromInt(100)) {
		return 100
	}
	return progress.InexactFloat64()
}
