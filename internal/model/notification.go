package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// 通知类型
const (
	NotificationInfo    = "info"
	NotificationSuccess = "success"
	NotificationWarning = "warning"
	NotificationBadge   = "badge"
	NotificationEvent   = "event"
)

// UserNotification 用户通知
type UserNotification struct {
	ID               int       `json:"id"`
	UserID           int       `json:"user_id"`
	Title            string    `json:"title"`
	Message          string    `json:"message"`
	NotificationType string    `json:"notification_type"`
	IsRead           bool      `json:"is_read"`
	CreatedAt        time.Time `json:"created_at"`
}

// DedupKey 通知去重键，同一用户下 (类型, 标题, 内容) 相同的通知只保存一条
func (n *UserNotification) DedupKey() string {
	sum := sha256.Sum256([]byte(n.NotificationType + "\x00" + n.Title + "\x00" + n.Message))
	return hex.EncodeToString(sum[:])
}
