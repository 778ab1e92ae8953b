package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"civicos/internal/models"
	"civicos/internal/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const politicianListKey = "politicians:list:"

// PoliticianDetail is a politician with tracking state for the viewer.
type PoliticianDetail struct {
	models.Politician
	Followers  int64                        `json:"followers"`
	Tracked    bool                         `json:"tracked"`
	Statements []models.PoliticianStatement `json:"statements"`
	Positions  []models.PoliticianPosition  `json:"positions"`
}

type AddStatementInput struct {
	PoliticianID uint
	Content      string
	FactCheck    string
	StatedAt     *time.Time
}

type PoliticianService struct {
	db       *gorm.DB
	trust    *TrustScoreService
	queue    *RefreshQueue
	cache    utils.Cache
	cacheTTL time.Duration
}

func NewPoliticianService(db *gorm.DB, trust *TrustScoreService, queue *RefreshQueue, cache utils.Cache, cacheTTL time.Duration) *PoliticianService {
	return &PoliticianService{db: db, trust: trust, queue: queue, cache: cache, cacheTTL: cacheTTL}
}

func (s *PoliticianService) List(ctx context.Context, party string) ([]models.Politician, error) {
	key := politicianListKey + party
	if s.cache != nil {
		var cached []models.Politician
		if s.cache.Get(ctx, key, &cached) {
			return cached, nil
		}
	}

	var politicians []models.Politician
	q := s.db.WithContext(ctx).Order("name ASC")
	if party != "" {
		q = q.Where("party = ?", party)
	}
	if err := q.Find(&politicians).Error; err != nil {
		return nil, err
	}

	if s.cache != nil && s.cacheTTL > 0 {
		s.cache.Set(ctx, key, politicians, s.cacheTTL)
	}
	return politicians, nil
}

// Detail refreshes the trust score before returning the politician, so a
// stale cached score is never served past the refresh interval.
func (s *PoliticianService) Detail(ctx context.Context, id, viewerID uint) (*PoliticianDetail, error) {
	p, err := s.trust.Refresh(ctx, id)
	if err != nil {
		return nil, err
	}

	d := &PoliticianDetail{Politician: *p}
	d.Followers, err = CountRows(ctx, s.db, &models.PoliticianFollow{}, WhereEq("politician_id", id))
	if err != nil {
		return nil, err
	}
	if viewerID != 0 {
		n, err := CountRows(ctx, s.db, &models.PoliticianFollow{},
			WhereEq("politician_id", id), WhereEq("user_id", viewerID))
		if err != nil {
			return nil, err
		}
		d.Tracked = n > 0
	}
	if err := s.db.WithContext(ctx).Where("politician_id = ?", id).
		Order("stated_at DESC").Limit(20).Find(&d.Statements).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Where("politician_id = ?", id).
		Order("topic ASC").Find(&d.Positions).Error; err != nil {
		return nil, err
	}
	return d, nil
}

func (s *PoliticianService) exists(ctx context.Context, id uint) error {
	n, err := CountRows(ctx, s.db, &models.Politician{}, WhereEq("id", id))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// VotingRecord lists the politician's recorded parliamentary votes, newest first.
func (s *PoliticianService) VotingRecord(ctx context.Context, id uint) ([]models.PoliticianVote, error) {
	if err := s.exists(ctx, id); err != nil {
		return nil, err
	}
	var votes []models.PoliticianVote
	err := s.db.WithContext(ctx).Preload("Bill").
		Where("politician_id = ?", id).
		Order("voted_at DESC").
		Find(&votes).Error
	return votes, err
}

// Track follows a politician. Following twice is not an error and awards
// points only once.
func (s *PoliticianService) Track(ctx context.Context, userID, politicianID uint) error {
	var p models.Politician
	if err := s.db.WithContext(ctx).Select("id", "name").First(&p, politicianID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.PoliticianFollow{UserID: userID, PoliticianID: politicianID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return RecordActivity(tx, userID, ActionPoliticianTracked,
			"Started tracking "+p.Name, PointsPoliticianTracked,
			map[string]interface{}{"politician_id": politicianID})
	})
}

func (s *PoliticianService) Untrack(ctx context.Context, userID, politicianID uint) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND politician_id = ?", userID, politicianID).
		Delete(&models.PoliticianFollow{}).Error
}

// AddStatement records a fact-checked statement and queues a trust score
// recomputation.
func (s *PoliticianService) AddStatement(ctx context.Context, in AddStatementInput) (*models.PoliticianStatement, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if in.FactCheck == "" {
		in.FactCheck = models.FactUnverified
	}
	if !models.ValidFactCheck(in.FactCheck) {
		return nil, fmt.Errorf("%w: unknown fact check %q", ErrInvalidInput, in.FactCheck)
	}
	if err := s.exists(ctx, in.PoliticianID); err != nil {
		return nil, err
	}

	stmt := models.PoliticianStatement{
		PoliticianID: in.PoliticianID,
		Content:      content,
		FactCheck:    in.FactCheck,
		StatedAt:     time.Now(),
	}
	if in.StatedAt != nil {
		stmt.StatedAt = *in.StatedAt
	}
	if err := s.db.WithContext(ctx).Create(&stmt).Error; err != nil {
		return nil, fmt.Errorf("add statement: %w", err)
	}

	if s.queue != nil {
		s.queue.Schedule(in.PoliticianID)
	}
	return &stmt, nil
}
