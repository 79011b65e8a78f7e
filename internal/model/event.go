package model

import "time"

// 活动类型
const (
	EventWorkshop    = "workshop"
	EventConference  = "conference"
	EventCompetition = "competition"
	EventFundraising = "fundraising"
	EventVolunteer   = "volunteer"
	EventCommunity   = "community"
)

// 活动报名状态
const (
	ParticipationRegistered = "registered"
	ParticipationConfirmed  = "confirmed"
	ParticipationAttended   = "attended"
	ParticipationCancelled  = "cancelled"
	ParticipationNoShow     = "no_show"
)

// Event 活动
type Event struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	EventType string    `json:"event_type"`
	Date      time.Time `json:"date"`
	Location  string    `json:"location"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// EventParticipation 活动报名，(user_id, event_id) 唯一
type EventParticipation struct {
	ID               int       `json:"id"`
	UserID           int       `json:"user_id"`
	EventID          int       `json:"event_id"`
	EventTitle       string    `json:"event_title,omitempty"`
	Status           string    `json:"status"`
	Notes            string    `json:"notes,omitempty"`
	RegistrationDate time.Time `json:"registration_date"`
}

// IsActive 已确认或已出席的报名视为有效参与
func (p *EventParticipation) IsActive() bool {
	return p.Status == ParticipationConfirmed || p.Status == ParticipationAttended
}

// ValidParticipationStatus 判断报名状态是否合法
func ValidParticipationStatus(status string) bool {
	switch status {
	case ParticipationRegistered, ParticipationConfirmed, ParticipationAttended,
		ParticipationCancelled, ParticipationNoShow:
		return true
	}
	return false
}

// MBC 参与者状态
const (
	MBCPending   = "pending"
	MBCConfirmed = "confirmed"
	MBCCancelled = "cancelled"
)

// MBCChallenge Mutoto Bike Challenge 赛事
type MBCChallenge struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Date            time.Time `json:"date"`
	Location        string    `json:"location"`
	MaxParticipants int       `json:"max_participants"`
	IsActive        bool      `json:"is_active"`
}

// MBCParticipant 骑行挑战参与者
type MBCParticipant struct {
	ID               int       `json:"id"`
	ChallengeID      int       `json:"challenge_id"`
	ParticipantName  string    `json:"participant_name"`
	ParticipantEmail string    `json:"participant_email"`
	ParticipantPhone string    `json:"participant_phone,omitempty"`
	Age              int       `json:"age"`
	Status           string    `json:"status"`
	RegisteredAt     time.Time `json:"registered_at"`
}

// ValidMBCStatus 判断参与者状态是否合法
func ValidMBCStatus(status string) bool {
	switch status {
	case MBCPending, MBCConfirmed, MBCCancelled:
		return true
	}
	return false
}
