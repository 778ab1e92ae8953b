package models

import (
	"time"
)

const (
	BillActive    = "active"
	BillPassed    = "passed"
	BillDefeated  = "defeated"
	BillWithdrawn = "withdrawn"
)

type Bill struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Number       string      `gorm:"size:20;index" json:"number"` // e.g. C-21
	Title        string      `gorm:"not null" json:"title"`
	Summary      string      `gorm:"type:text" json:"summary"`
	Status       string      `gorm:"size:20;default:'active';not null;index" json:"status"`
	Stage        string      `gorm:"size:100" json:"stage"`
	SponsorID    *uint       `gorm:"index" json:"sponsor_id"`
	Sponsor      *Politician `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"sponsor,omitempty"`
	ExternalID   *string     `gorm:"uniqueIndex" json:"-"` // feed GUID
	SourceURL    string      `json:"source_url"`
	IntroducedAt *time.Time  `json:"introduced_at"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
