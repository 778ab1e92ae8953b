package models

import (
	"time"
)

const (
	PetitionActive     = "active"
	PetitionSuccessful = "successful"
	PetitionClosed     = "closed"
)

type Petition struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Title             string     `gorm:"not null" json:"title"`
	Description       string     `gorm:"type:text" json:"description"`      // markdown source
	DescriptionHTML   string     `gorm:"type:text" json:"description_html"` // sanitised render
	TargetSignatures  int        `gorm:"not null" json:"target_signatures"`
	CurrentSignatures int        `gorm:"default:0;not null" json:"current_signatures"`
	Status            string     `gorm:"size:20;default:'active';not null;index" json:"status"`
	Deadline          *time.Time `json:"deadline"`
	CreatorID         uint       `gorm:"not null;index" json:"creator_id"`
	Creator           User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"creator"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// PetitionSignature is unique per (petition, user).
type PetitionSignature struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	PetitionID     uint      `gorm:"not null;uniqueIndex:idx_petition_user" json:"petition_id"`
	UserID         uint      `gorm:"not null;uniqueIndex:idx_petition_user;index" json:"user_id"`
	VerificationID string    `gorm:"size:100;not null" json:"verification_id"`
	SignedAt       time.Time `gorm:"autoCreateTime" json:"signed_at"`
}
