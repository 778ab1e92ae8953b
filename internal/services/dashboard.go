package services

import (
	"context"
	"errors"

	"civicos/internal/models"
	"civicos/internal/utils"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// DashboardStats is the per-user summary behind the dashboard. Sub-queries
// run independently, so under concurrent writes the fields may reflect
// slightly different moments.
type DashboardStats struct {
	TotalVotes         int64                 `json:"totalVotes"`
	ActiveBills        int64                 `json:"activeBills"`
	PoliticiansTracked int64                 `json:"politiciansTracked"`
	PetitionsSigned    int64                 `json:"petitionsSigned"`
	CivicPoints        int                   `json:"civicPoints"`
	TrustScore         int                   `json:"trustScore"`
	Level              string                `json:"level"`
	RecentActivity     []models.UserActivity `json:"recentActivity"`
}

const recentActivityLimit = 5

type DashboardService struct {
	db       *gorm.DB
	activity *ActivityService
}

func NewDashboardService(db *gorm.DB, activity *ActivityService) *DashboardService {
	return &DashboardService{db: db, activity: activity}
}

// Stats fans out the dashboard queries concurrently; the first failure
// cancels the rest and is returned.
func (s *DashboardService) Stats(ctx context.Context, userID uint) (*DashboardStats, error) {
	var (
		stats DashboardStats
		user  models.User
	)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := s.db.WithContext(gctx).Select("id", "civic_points", "trust_score").First(&user, userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	})
	g.Go(func() (err error) {
		stats.TotalVotes, err = CountRows(gctx, s.db, &models.Vote{}, WhereEq("user_id", userID))
		return
	})
	g.Go(func() (err error) {
		stats.ActiveBills, err = CountRows(gctx, s.db, &models.Bill{}, WhereEq("status", models.BillActive))
		return
	})
	g.Go(func() (err error) {
		stats.PoliticiansTracked, err = CountRows(gctx, s.db, &models.PoliticianFollow{}, WhereEq("user_id", userID))
		return
	})
	g.Go(func() (err error) {
		stats.PetitionsSigned, err = CountRows(gctx, s.db, &models.PetitionSignature{}, WhereEq("user_id", userID))
		return
	})
	g.Go(func() (err error) {
		stats.RecentActivity, err = s.activity.Recent(gctx, userID, recentActivityLimit)
		return
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.CivicPoints = user.CivicPoints
	stats.TrustScore = user.TrustScore
	stats.Level = utils.CivicLevel(user.CivicPoints)
	return &stats, nil
}
