package models

import (
	"time"
)

type Politician struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	Name                 string     `gorm:"not null;index" json:"name"`
	Party                string     `gorm:"size:100;index" json:"party"`
	Position             string     `gorm:"size:100" json:"position"`
	Riding               string     `gorm:"size:150" json:"riding"`
	ParliamentMemberID   string     `gorm:"size:50;index" json:"parliament_member_id"`
	TrustScore           *int       `json:"trust_score"`
	TrustScoreComputedAt *time.Time `json:"trust_score_computed_at"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// Fact-check verdicts for statements.
const (
	FactTrue        = "true"
	FactMostlyTrue  = "mostly_true"
	FactMixed       = "mixed"
	FactMostlyFalse = "mostly_false"
	FactFalse       = "false"
	FactUnverified  = "unverified"
)

func ValidFactCheck(v string) bool {
	switch v {
	case FactTrue, FactMostlyTrue, FactMixed, FactMostlyFalse, FactFalse, FactUnverified:
		return true
	}
	return false
}

type PoliticianStatement struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	PoliticianID uint      `gorm:"not null;index" json:"politician_id"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	FactCheck    string    `gorm:"size:20;default:'unverified';not null" json:"fact_check"`
	StatedAt     time.Time `json:"stated_at"`
	CreatedAt    time.Time `json:"created_at"`
}

type PoliticianPosition struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	PoliticianID uint      `gorm:"not null;index" json:"politician_id"`
	Topic        string    `gorm:"size:100;not null" json:"topic"`
	Stance       string    `gorm:"type:text" json:"stance"`
	Changed      bool      `gorm:"default:false" json:"changed"` // reversed a previous stance
	CreatedAt    time.Time `json:"created_at"`
}

// Recorded parliamentary vote positions.
const (
	PositionYes     = "yes"
	PositionNo      = "no"
	PositionAbstain = "abstain"
	PositionAbsent  = "absent"
)

type PoliticianVote struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	PoliticianID uint      `gorm:"not null;index;uniqueIndex:idx_politician_bill" json:"politician_id"`
	BillID       uint      `gorm:"not null;uniqueIndex:idx_politician_bill" json:"bill_id"`
	Bill         Bill      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"bill"`
	Position     string    `gorm:"size:10;not null" json:"position"`
	VotedAt      time.Time `json:"voted_at"`
}

// PoliticianFollow marks a politician as tracked by a user.
type PoliticianFollow struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index;uniqueIndex:idx_user_politician" json:"user_id"`
	PoliticianID uint      `gorm:"not null;uniqueIndex:idx_user_politician" json:"politician_id"`
	CreatedAt    time.Time `json:"created_at"`
}
