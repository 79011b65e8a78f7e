package model

import "time"

// 用户角色
const (
	RoleMember    = "member"
	RoleVolunteer = "volunteer"
	RoleStaff     = "staff"
	RolePartner   = "partner"
	RoleDonor     = "donor"
	RoleChild     = "child"
	RoleParent    = "parent"
)

// SelfAssignableRole 用户可在资料中自行选择的角色，staff 由管理员授予
func SelfAssignableRole(role string) bool {
	switch role {
	case RoleMember, RoleVolunteer, RolePartner, RoleDonor, RoleChild, RoleParent:
		return true
	}
	return false
}

// 徽章
const (
	BadgeNewMember      = "new_member"
	BadgeBikeChallenger = "bike_challenger"
)

// UserProfile 用户扩展资料，与用户一对一
type UserProfile struct {
	UserID             int       `json:"user_id"`
	Username           string    `json:"username"`
	FullName           string    `json:"full_name,omitempty"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone,omitempty"`
	Role               string    `json:"role"`
	IsActive           bool      `json:"is_active"`
	Latitude           *float64  `json:"latitude,omitempty"`
	Longitude          *float64  `json:"longitude,omitempty"`
	Points             int       `json:"points"`
	Level              int       `json:"level"`
	Badges             []string  `json:"badges"`
	EmailNotifications bool      `json:"email_notifications"`
	JoinedAt           time.Time `json:"joined_at"`
}

// DisplayName 返回全名，没有全名时返回用户名
func (p *UserProfile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Username
}

// HasBadge 判断是否已获得徽章
func (p *UserProfile) HasBadge(badge string) bool {
	for _, b := range p.Badges {
		if b == badge {
			return true
		}
	}
	return false
}

// AddBadge 添加徽章，已存在时返回 false
func (p *UserProfile) AddBadge(badge string) bool {
	if p.HasBadge(badge) {
		return false
	}
	p.Badges = append(p.Badges, badge)
	return true
}

// AddPoints 增加积分并重新计算等级
func (p *UserProfile) AddPoints(points int) {
	p.Points += points
	p.Level = LevelForPoints(p.Points)
}

// LevelForPoints 根据积分计算等级
func LevelForPoints(points int) int {
	switch {
	case points < 100:
		return 1
	case points < 500:
		return 2
	case points < 1000:
		return 3
	case points < 2500:
		return 4
	default:
		return 5
	}
}

// 用户动态类型
const (
	ActivityLogin              = "login"
	ActivityDonation           = "donation"
	ActivityRegistration       = "registration"
	ActivityEventParticipation = "event_participation"
	ActivityProfileUpdated     = "profile_updated"
)

// UserActivity 用户动态
type UserActivity struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user_id"`
	ActivityType string    `json:"activity_type"`
	Description  string    `json:"description"`
	Timestamp    time.Time `json:"timestamp"`
}
