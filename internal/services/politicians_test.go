package services

import (
	"context"
	"testing"
	"time"

	"civicos/internal/models"
	"civicos/internal/testutil"
	"civicos/internal/utils"

	"github.com/stretchr/testify/require"
)

func newPoliticianService(t *testing.T) (*PoliticianService, *TrustScoreService) {
	t.Helper()
	gdb := testutil.OpenDB(t)
	trust := NewTrustScoreService(gdb, time.Hour)
	return NewPoliticianService(gdb, trust, NewRefreshQueue(trust), utils.NewLocalCache(16), time.Minute), trust
}

func TestTrackPoliticianIsIdempotent(t *testing.T) {
	svc, _ := newPoliticianService(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, svc.db, "follower")
	p := testutil.CreatePolitician(t, svc.db, "Ada Member")

	require.NoError(t, svc.Track(ctx, user.ID, p.ID))
	require.NoError(t, svc.Track(ctx, user.ID, p.ID))

	detail, err := svc.Detail(ctx, p.ID, user.ID)
	require.NoError(t, err)
	require.True(t, detail.Tracked)
	require.Equal(t, int64(1), detail.Followers)

	var reloaded models.User
	require.NoError(t, svc.db.First(&reloaded, user.ID).Error)
	require.Equal(t, PointsPoliticianTracked, reloaded.CivicPoints)

	require.NoError(t, svc.Untrack(ctx, user.ID, p.ID))
	detail, err = svc.Detail(ctx, p.ID, user.ID)
	require.NoError(t, err)
	require.False(t, detail.Tracked)

	require.ErrorIs(t, svc.Track(ctx, user.ID, 999), ErrNotFound)
}

func TestPoliticianDetailRefreshesTrustScore(t *testing.T) {
	svc, trust := newPoliticianService(t)
	ctx := context.Background()
	p := testutil.CreatePolitician(t, svc.db, "Scored")
	seedTrustData(t, trust, p.ID)

	detail, err := svc.Detail(ctx, p.ID, 0)
	require.NoError(t, err)
	require.NotNil(t, detail.TrustScore)
	require.Equal(t, 81, *detail.TrustScore)
	require.Len(t, detail.Statements, 2)
	require.Len(t, detail.Positions, 1)

	_, err = svc.Detail(ctx, 999, 0)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPoliticianVotingRecord(t *testing.T) {
	svc, _ := newPoliticianService(t)
	ctx := context.Background()
	p := testutil.CreatePolitician(t, svc.db, "Voter")
	bill := testutil.CreateBill(t, svc.db, "C-11", models.BillActive)
	require.NoError(t, svc.db.Create(&models.PoliticianVote{PoliticianID: p.ID, BillID: bill.ID, Position: models.PositionNo}).Error)

	votes, err := svc.VotingRecord(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, votes, 1)
	require.Equal(t, "C-11", votes[0].Bill.Number)

	_, err = svc.VotingRecord(ctx, 999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAddStatementQueuesRefresh(t *testing.T) {
	svc, _ := newPoliticianService(t)
	ctx := context.Background()
	p := testutil.CreatePolitician(t, svc.db, "Speaker")

	_, err := svc.AddStatement(ctx, AddStatementInput{PoliticianID: p.ID, Content: "x", FactCheck: "pants_on_fire"})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.AddStatement(ctx, AddStatementInput{PoliticianID: 999, Content: "x"})
	require.ErrorIs(t, err, ErrNotFound)

	stmt, err := svc.AddStatement(ctx, AddStatementInput{PoliticianID: p.ID, Content: "Taxes went down", FactCheck: models.FactMostlyTrue})
	require.NoError(t, err)
	require.NotZero(t, stmt.ID)
	require.True(t, svc.queue.Pending(p.ID))
}

func TestListPoliticiansByParty(t *testing.T) {
	svc, _ := newPoliticianService(t)
	ctx := context.Background()
	testutil.CreatePolitician(t, svc.db, "B Independent")
	green := &models.Politician{Name: "A Green", Party: "Green"}
	require.NoError(t, svc.db.Create(green).Error)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "A Green", all[0].Name)

	greens, err := svc.List(ctx, "Green")
	require.NoError(t, err)
	require.Len(t, greens, 1)
}
