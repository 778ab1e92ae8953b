package models

import (
	"time"
)

type NotificationType string

const (
	NotificationPetitionGoal   NotificationType = "petition_goal"
	NotificationPetitionClosed NotificationType = "petition_closed"
	NotificationCommentPost    NotificationType = "comment_post"
)

type Notification struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"not null;index" json:"user_id"` // receiver
	ActorID   *uint            `gorm:"index" json:"actor_id"`
	Type      NotificationType `gorm:"type:varchar(30);not null" json:"type"`
	Message   string           `gorm:"type:text" json:"message"`
	Link      string           `gorm:"size:255" json:"link"`
	IsRead    bool             `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}
