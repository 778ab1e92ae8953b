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

func TestBillListAttachesTallies(t *testing.T) {
	gdb := testutil.OpenDB(t)
	tally := NewTallyService(gdb)
	svc := NewBillService(gdb, tally, utils.NewLocalCache(16), time.Minute)
	voting := NewVotingService(gdb, tally)
	ctx := context.Background()

	voted := testutil.CreateBill(t, gdb, "C-5", models.BillActive)
	testutil.CreateBill(t, gdb, "C-6", models.BillActive)
	testutil.CreateBill(t, gdb, "S-2", models.BillPassed)

	for i, name := range []string{"u1", "u2"} {
		u := testutil.CreateUser(t, gdb, name)
		_, err := voting.Cast(ctx, CastVoteInput{UserID: u.ID, ItemID: voted.ID, ItemType: "bill", Value: 1 - 2*i, VerificationID: "v"})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, models.BillActive, 1)
	require.NoError(t, err)
	require.Equal(t, int64(2), page.Total)
	require.Len(t, page.Bills, 2)
	for _, b := range page.Bills {
		if b.ID == voted.ID {
			require.Equal(t, VoteTally{TotalVotes: 2, YesVotes: 1, NoVotes: 1}, b.Tally)
		} else {
			require.Equal(t, VoteTally{}, b.Tally)
		}
	}

	// cached rows still get fresh tallies
	u3 := testutil.CreateUser(t, gdb, "u3")
	_, err = voting.Cast(ctx, CastVoteInput{UserID: u3.ID, ItemID: voted.ID, ItemType: "bill", Value: 0, VerificationID: "v"})
	require.NoError(t, err)
	page, err = svc.List(ctx, models.BillActive, 1)
	require.NoError(t, err)
	for _, b := range page.Bills {
		if b.ID == voted.ID {
			require.Equal(t, int64(3), b.Tally.TotalVotes)
		}
	}

	all, err := svc.List(ctx, "", 0)
	require.NoError(t, err)
	require.Equal(t, 1, all.Page)
	require.Equal(t, int64(3), all.Total)
}

func TestBillSearchAndGet(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := NewBillService(gdb, NewTallyService(gdb), nil, 0)
	ctx := context.Background()

	b := testutil.CreateBill(t, gdb, "C-21", models.BillActive)
	testutil.CreateBill(t, gdb, "C-22", models.BillActive)

	found, err := svc.Search(ctx, "c-21")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, b.ID, found[0].ID)

	_, err = svc.Search(ctx, " ")
	require.ErrorIs(t, err, ErrInvalidInput)

	got, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, "C-21", got.Number)

	_, err = svc.Get(ctx, 999)
	require.ErrorIs(t, err, ErrNotFound)
}
