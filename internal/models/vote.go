package models

import (
	"time"
)

// Item types a citizen vote can target.
const (
	ItemTypeBill     = "bill"
	ItemTypePetition = "petition"
	ItemTypePost     = "post"
	ItemTypeComment  = "comment"
)

// Vote values.
const (
	VoteYes     = 1
	VoteNo      = -1
	VoteAbstain = 0
)

// Vote is one citizen's vote on an item. The composite unique index makes the
// one-vote-per-item rule hold under concurrent requests.
type Vote struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;uniqueIndex:idx_vote_user_item" json:"user_id"`
	ItemID         uint      `gorm:"not null;uniqueIndex:idx_vote_user_item;index:idx_vote_item" json:"item_id"`
	ItemType       string    `gorm:"size:20;not null;uniqueIndex:idx_vote_user_item;index:idx_vote_item" json:"item_type"`
	Value          int       `gorm:"not null" json:"value"`
	VerificationID string    `gorm:"size:100;not null" json:"verification_id"`
	IntegrityHash  string    `gorm:"size:64;not null" json:"integrity_hash"`
	ReceiptID      string    `gorm:"size:36;uniqueIndex;not null" json:"receipt_id"`
	CreatedAt      time.Time `json:"created_at"`
}

func ValidItemType(t string) bool {
	switch t {
	case ItemTypeBill, ItemTypePetition, ItemTypePost, ItemTypeComment:
		return true
	}
	return false
}

func ValidVoteValue(v int) bool {
	return v == VoteYes || v == VoteNo || v == VoteAbstain
}
