package model

import "aime-backend/internal/util"

// QuartiersFloor 受影响街区数的展示下限
const QuartiersFloor = 25

// SiteStats 站点统计快照
type SiteStats struct {
	TotalDonations      int64 `json:"total_donations"`
	TotalChildrenHelped int   `json:"total_children_helped"`
	ActiveProjects      int   `json:"active_projects"`
	TotalEvents         int   `json:"total_events"`
	FormationsDispensed int   `json:"formations_dispensed"`
	FamiliesSupported   int   `json:"families_supported"`
	MBCParticipants     int   `json:"mbc_participants"`
	QuartiersImpacted   int   `json:"quartiers_impacted"`
	StaffContributions  int64 `json:"staff_contributions"`
	EventParticipations int   `json:"event_participations"`

	// 辅助统计
	TotalUsers      int `json:"total_users"`
	TotalVolunteers int `json:"total_volunteers"`
	TotalDonors     int `json:"total_donors"`
}

// Formatted 返回主要指标的展示格式
func (s *SiteStats) Formatted() map[string]string {
	return map[string]string{
		"total_donations":       util.FormatNumber(s.TotalDonations),
		"total_children_helped": util.FormatNumber(int64(s.TotalChildrenHelped)),
		"families_supported":    util.FormatNumber(int64(s.FamiliesSupported)),
		"quartiers_impacted":    util.FormatNumber(int64(s.QuartiersImpacted)),
		"staff_contributions":   util.FormatNumber(s.StaffContributions),
	}
}

// Dashboard 用户仪表盘数据
type Dashboard struct {
	Profile             *UserProfile        `json:"profile"`
	TotalDonations      int64               `json:"total_donations"`
	DonationsCount      int                 `json:"donations_count"`
	EventsParticipated  int                 `json:"events_participated"`
	ChallengesCompleted int                 `json:"challenges_completed"`
	Ranking             int                 `json:"ranking"`
	UnreadNotifications int                 `json:"unread_notifications"`
	RecentActivities    []*UserActivity     `json:"recent_activities"`
	RecentNotifications []*UserNotification `json:"recent_notifications"`
	UpcomingEvents      []*Event            `json:"upcoming_events"`
	ActiveChallenges    []*MBCChallenge     `json:"active_challenges"`
}
