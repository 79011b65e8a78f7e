package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StaffContribution 员工月度或一次性缴费
type StaffContribution struct {
	ID          int             `json:"id"`
	StaffID     int             `json:"staff_id"`
	StaffName   string          `json:"staff_name,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Month       string          `json:"month"`
	Object      string          `json:"object,omitempty"`
	IsRecorded  bool            `json:"is_recorded"`
	CreatedAt   time.Time       `json:"created_at"`
	ValidatedAt *time.Time      `json:"validated_at,omitempty"`
	ValidatedBy *int            `json:"validated_by,omitempty"`
}

// IsValidated 已入账且有验证时间才计入统计与影响点
func (c *StaffContribution) IsValidated() bool {
	return c.IsRecorded && c.ValidatedAt != nil
}
