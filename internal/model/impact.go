package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 影响点类型
const (
	ImpactDonation      = "donation"
	ImpactEvent         = "event"
	ImpactParticipation = "participation"
	ImpactContribution  = "contribution"
	ImpactProject       = "project"
	ImpactOther         = "other"
)

// 影响点关联的来源模型
const (
	RelatedDonation          = "Donation"
	RelatedParticipation     = "EventParticipation"
	RelatedStaffContribution = "StaffContribution"
)

// ImpactPoint 影响点投影，(type, related_id, related_model) 唯一
type ImpactPoint struct {
	ID           int                 `json:"id"`
	Type         string              `json:"type"`
	RelatedID    *int                `json:"related_id,omitempty"`
	RelatedModel string              `json:"related_model,omitempty"`
	Latitude     *float64            `json:"latitude,omitempty"`
	Longitude    *float64            `json:"longitude,omitempty"`
	Description  string              `json:"description"`
	Value        decimal.NullDecimal `json:"value"`
	Status       string              `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// ImpactKey 影响点的自然键
type ImpactKey struct {
	Type         string
	RelatedID    int
	RelatedModel string
}

// ValidImpactType 判断影响点类型是否合法
func ValidImpactType(t string) bool {
	switch t {
	case ImpactDonation, ImpactEvent, ImpactParticipation, ImpactContribution, ImpactProject, ImpactOther:
		return true
	}
	return false
}

// MapPoint 地图接口输出的影响点
type MapPoint struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	ImpactValue *float64 `json:"impact_value"`
	Date        string   `json:"date"`
	Status      string   `json:"status"`
}

// ToMapPoint 转换为地图输出格式
func (p *ImpactPoint) ToMapPoint() MapPoint {
	title := p.Description
	if title == "" {
		title = p.Type
	}
	var value *float64
	if p.Value.Valid && !p.Value.Decimal.IsZero() {
		v := p.Value.Decimal.InexactFloat64()
		value = &v
	}
	return MapPoint{
		ID:          p.ID,
		Title:       title,
		Description: p.Description,
		Type:        p.Type,
		Lat:         nonZero(p.Latitude),
		Lng:         nonZero(p.Longitude),
		ImpactValue: value,
		Date:        p.CreatedAt.Format("2006-01-02"),
		Status:      p.Status,
	}
}

func nonZero(v *float64) *float64 {
	if v == nil || *v == 0 {
		return nil
	}
	return v
}
