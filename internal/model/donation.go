package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 捐款状态
const (
	DonationPending   = "pending"
	DonationCompleted = "completed"
	DonationFailed    = "failed"
	DonationRefunded  = "refunded"
)

// DefaultCurrency 默认币种（刚果法郎）
const DefaultCurrency = "CDF"

// Donation 捐款记录
type Donation struct {
	ID            int             `json:"id"`
	DonorName     string          `json:"donor_name"`
	DonorEmail    string          `json:"donor_email"`
	DonorPhone    string          `json:"donor_phone,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	ProjectID     *int            `json:"project_id,omitempty"`
	Message       string          `json:"message,omitempty"`
	IsAnonymous   bool            `json:"is_anonymous"`
	Status        string          `json:"status"`
	TransactionID string          `json:"transaction_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// IsCompleted 只有已完成的捐款计入统计与影响点
func (d *Donation) IsCompleted() bool {
	return d.Status == DonationCompleted
}

// AnonymousDonor 匿名捐款对外显示的名称
const AnonymousDonor = "Anonyme"

// PublicDonation 项目页公开展示的捐款，不含联系方式
type PublicDonation struct {
	DonorName string          `json:"donor_name"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Message   string          `json:"message,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Public 转换为公开展示形式，匿名捐款隐藏姓名
func (d *Donation) Public() PublicDonation {
	name := d.DonorName
	if d.IsAnonymous {
		name = AnonymousDonor
	}
	return PublicDonation{
		DonorName: name,
		Amount:    d.Amount,
		Currency:  d.Currency,
		Message:   d.Message,
		CreatedAt: d.CreatedAt,
	}
}

// ValidDonationStatus 判断捐款状态是否合法
func ValidDonationStatus(status string) bool {
	switch status {
	case DonationPending, DonationCompleted, DonationFailed, DonationRefunded:
		return true
	}
	return false
}
