package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"civicos/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CastVoteInput struct {
	UserID         uint
	ItemID         uint
	ItemType       string
	Value          int
	VerificationID string
}

type CastVoteResult struct {
	Vote  models.Vote `json:"vote"`
	Tally VoteTally   `json:"tally"`
}

type VotingService struct {
	db    *gorm.DB
	tally *TallyService
}

func NewVotingService(db *gorm.DB, tally *TallyService) *VotingService {
	return &VotingService{db: db, tally: tally}
}

// IntegrityHash fingerprints a vote so a receipt can be checked against the
// stored row.
func IntegrityHash(userID, itemID uint, itemType string, value int, verificationID string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d:%s:%d:%d:%s", userID, itemType, itemID, value, verificationID)))
	return hex.EncodeToString(sum[:])
}

func itemModel(itemType string) interface{} {
	switch itemType {
	case models.ItemTypeBill:
		return &models.Bill{}
	case models.ItemTypePetition:
		return &models.Petition{}
	case models.ItemTypePost:
		return &models.Post{}
	case models.ItemTypeComment:
		return &models.Comment{}
	}
	return nil
}

func (s *VotingService) itemExists(ctx context.Context, itemType string, itemID uint) (bool, error) {
	model := itemModel(itemType)
	if model == nil {
		return false, nil
	}
	n, err := CountRows(ctx, s.db, model, WhereEq("id", itemID))
	return n > 0, err
}

// Cast records a vote. A second vote by the same user on the same item and
// type returns ErrAlreadyVoted and leaves the first vote untouched; the
// unique index decides, so concurrent duplicates cannot both land.
func (s *VotingService) Cast(ctx context.Context, in CastVoteInput) (*CastVoteResult, error) {
	in.ItemType = strings.ToLower(strings.TrimSpace(in.ItemType))
	in.VerificationID = strings.TrimSpace(in.VerificationID)

	if in.ItemID == 0 || !models.ValidItemType(in.ItemType) {
		return nil, fmt.Errorf("%w: unknown item", ErrInvalidInput)
	}
	if !models.ValidVoteValue(in.Value) {
		return nil, fmt.Errorf("%w: vote must be 1, -1 or 0", ErrInvalidInput)
	}
	if in.VerificationID == "" {
		return nil, fmt.Errorf("%w: verificationId is required", ErrInvalidInput)
	}

	exists, err := s.itemExists(ctx, in.ItemType, in.ItemID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	vote := models.Vote{
		UserID:         in.UserID,
		ItemID:         in.ItemID,
		ItemType:       in.ItemType,
		Value:          in.Value,
		VerificationID: in.VerificationID,
		IntegrityHash:  IntegrityHash(in.UserID, in.ItemID, in.ItemType, in.Value, in.VerificationID),
		ReceiptID:      uuid.NewString(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&vote)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyVoted
		}
		return RecordActivity(tx, in.UserID, ActionVoteCast,
			fmt.Sprintf("Voted on %s #%d", in.ItemType, in.ItemID),
			PointsVoteCast,
			map[string]interface{}{"item_type": in.ItemType, "item_id": in.ItemID, "receipt_id": vote.ReceiptID},
		)
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyVoted) {
			return nil, err
		}
		return nil, fmt.Errorf("cast vote: %w", err)
	}

	tally, err := s.tally.Tally(ctx, in.ItemType, in.ItemID)
	if err != nil {
		return nil, err
	}
	return &CastVoteResult{Vote: vote, Tally: tally}, nil
}

// History lists the user's votes, newest first.
func (s *VotingService) History(ctx context.Context, userID uint, limit int) ([]models.Vote, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	votes := make([]models.Vote, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&votes).Error
	return votes, err
}
