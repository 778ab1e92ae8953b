package services

import (
	"context"

	"civicos/internal/models"

	"gorm.io/gorm"
)

// VoteTally summarises the votes on one item. Fields are always present and
// YesVotes+NoVotes+Abstentions equals TotalVotes.
type VoteTally struct {
	TotalVotes  int64 `json:"total_votes"`
	YesVotes    int64 `json:"yes_votes"`
	NoVotes     int64 `json:"no_votes"`
	Abstentions int64 `json:"abstentions"`
}

func tallyFromCounts(counts map[int]int64) VoteTally {
	t := VoteTally{
		YesVotes:    counts[models.VoteYes],
		NoVotes:     counts[models.VoteNo],
		Abstentions: counts[models.VoteAbstain],
	}
	t.TotalVotes = t.YesVotes + t.NoVotes + t.Abstentions
	return t
}

type TallyService struct {
	db *gorm.DB
}

func NewTallyService(db *gorm.DB) *TallyService {
	return &TallyService{db: db}
}

// Tally runs one grouped aggregate over the votes for an item.
func (s *TallyService) Tally(ctx context.Context, itemType string, itemID uint) (VoteTally, error) {
	counts, err := CountGrouped[int](ctx, s.db, &models.Vote{}, "item_id", itemID, "value", WhereEq("item_type", itemType))
	if err != nil {
		return VoteTally{}, err
	}
	return tallyFromCounts(counts), nil
}

// TallyMany tallies a list of items with a single query. Every requested id
// has an entry.
func (s *TallyService) TallyMany(ctx context.Context, itemType string, itemIDs []uint) (map[uint]VoteTally, error) {
	batch, err := CountGroupedBatch[int](ctx, s.db, &models.Vote{}, "item_id", itemIDs, "value", WhereEq("item_type", itemType))
	if err != nil {
		return nil, err
	}
	result := make(map[uint]VoteTally, len(itemIDs))
	for _, id := range itemIDs {
		result[id] = tallyFromCounts(batch[id])
	}
	return result, nil
}
