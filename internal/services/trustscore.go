package services

import (
	"context"
	"errors"
	"math"
	"time"

	"civicos/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var factCheckWeights = map[string]float64{
	models.FactTrue:        1.0,
	models.FactMostlyTrue:  0.75,
	models.FactMixed:       0.5,
	models.FactMostlyFalse: 0.25,
	models.FactFalse:       0,
}

const (
	weightAccuracy    = 0.5
	weightConsistency = 0.3
	weightAttendance  = 0.2
)

// TrustInputs are the aggregated rows a trust score is derived from.
type TrustInputs struct {
	FactChecks    map[string]int64 // verdict -> statements
	Positions     map[bool]int64   // changed -> positions
	VotePositions map[string]int64 // yes/no/abstain/absent -> recorded votes
}

// ScoreTrust derives a 0-100 trust score from statement accuracy, position
// consistency and vote attendance. Components without data drop out and the
// remaining weights are renormalised. Nil means there is nothing to score.
func ScoreTrust(in TrustInputs) *int {
	var weighted, weights float64

	var checked int64
	var accuracy float64
	for verdict, n := range in.FactChecks {
		w, ok := factCheckWeights[verdict]
		if !ok {
			continue
		}
		checked += n
		accuracy += w * float64(n)
	}
	if checked > 0 {
		weighted += weightAccuracy * accuracy / float64(checked)
		weights += weightAccuracy
	}

	if total := in.Positions[true] + in.Positions[false]; total > 0 {
		weighted += weightConsistency * (1 - float64(in.Positions[true])/float64(total))
		weights += weightConsistency
	}

	var recorded int64
	for _, n := range in.VotePositions {
		recorded += n
	}
	if recorded > 0 {
		present := recorded - in.VotePositions[models.PositionAbsent]
		weighted += weightAttendance * float64(present) / float64(recorded)
		weights += weightAttendance
	}

	if weights == 0 {
		return nil
	}
	score := int(math.Round(100 * weighted / weights))
	return &score
}

type TrustScoreService struct {
	db          *gorm.DB
	minInterval time.Duration
	now         func() time.Time
}

// NewTrustScoreService bounds read-triggered recomputation to once per
// minInterval per politician; zero recomputes on every read.
func NewTrustScoreService(db *gorm.DB, minInterval time.Duration) *TrustScoreService {
	return &TrustScoreService{db: db, minInterval: minInterval, now: time.Now}
}

// Compute derives the politician's score from current rows without writing.
func (s *TrustScoreService) Compute(ctx context.Context, politicianID uint) (*int, error) {
	var (
		in  TrustInputs
		err error
	)
	in.FactChecks, err = CountGrouped[string](ctx, s.db, &models.PoliticianStatement{}, "politician_id", politicianID, "fact_check")
	if err != nil {
		return nil, err
	}
	in.Positions, err = CountGrouped[bool](ctx, s.db, &models.PoliticianPosition{}, "politician_id", politicianID, "changed")
	if err != nil {
		return nil, err
	}
	in.VotePositions, err = CountGrouped[string](ctx, s.db, &models.PoliticianVote{}, "politician_id", politicianID, "position")
	if err != nil {
		return nil, err
	}
	return ScoreTrust(in), nil
}

// Refresh loads the politician and recomputes its cached trust score unless
// the cached value is younger than the minimum interval. The write-back is a
// plain column update, so concurrent refreshes race harmlessly.
func (s *TrustScoreService) Refresh(ctx context.Context, politicianID uint) (*models.Politician, error) {
	return s.load(ctx, politicianID, false)
}

func (s *TrustScoreService) load(ctx context.Context, politicianID uint, force bool) (*models.Politician, error) {
	var p models.Politician
	if err := s.db.WithContext(ctx).First(&p, politicianID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.refresh(ctx, &p, force); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *TrustScoreService) fresh(p *models.Politician) bool {
	if s.minInterval <= 0 || p.TrustScoreComputedAt == nil || p.TrustScore == nil {
		return false
	}
	return s.now().Sub(*p.TrustScoreComputedAt) < s.minInterval
}

func (s *TrustScoreService) refresh(ctx context.Context, p *models.Politician, force bool) error {
	if !force && s.fresh(p) {
		return nil
	}

	score, err := s.Compute(ctx, p.ID)
	if err != nil {
		return err
	}
	if score == nil {
		return nil
	}

	computedAt := s.now()
	err = s.db.WithContext(ctx).Model(&models.Politician{}).
		Where("id = ?", p.ID).
		UpdateColumns(map[string]interface{}{
			"trust_score":             *score,
			"trust_score_computed_at": computedAt,
		}).Error
	if err != nil {
		return err
	}
	p.TrustScore = score
	p.TrustScoreComputedAt = &computedAt
	return nil
}

// RefreshAll recomputes every politician's score regardless of age.
func (s *TrustScoreService) RefreshAll(ctx context.Context) (int, error) {
	var politicians []models.Politician
	if err := s.db.WithContext(ctx).Find(&politicians).Error; err != nil {
		return 0, err
	}
	count := 0
	for i := range politicians {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		if err := s.refresh(ctx, &politicians[i], true); err != nil {
			log.Error().Err(err).Uint("politician_id", politicians[i].ID).Msg("trust score refresh failed")
			continue
		}
		count++
	}
	log.Info().Int("count", count).Msg("trust scores refreshed")
	return count, nil
}
