package models

import (
	"time"

	"gorm.io/datatypes"
)

// UserActivity is an append-only log of civic actions. Points is the civic
// point delta the action carried.
type UserActivity struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	Action      string         `gorm:"size:50;not null" json:"action"`
	Description string         `gorm:"size:255" json:"description"`
	Points      int            `gorm:"default:0" json:"points"`
	Metadata    datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}
