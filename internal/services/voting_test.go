package services

import (
	"context"
	"testing"

	"civicos/internal/models"
	"civicos/internal/testutil"

	"github.com/stretchr/testify/require"
)

func TestCastVoteSecondVoteRejected(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := NewVotingService(gdb, NewTallyService(gdb))
	ctx := context.Background()

	user := testutil.CreateUser(t, gdb, "alice")
	bill := testutil.CreateBill(t, gdb, "C-42", models.BillActive)

	first, err := svc.Cast(ctx, CastVoteInput{
		UserID: user.ID, ItemID: bill.ID, ItemType: "bill", Value: models.VoteYes, VerificationID: "v-1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, first.Vote.ReceiptID)
	require.Equal(t, IntegrityHash(user.ID, bill.ID, "bill", 1, "v-1"), first.Vote.IntegrityHash)
	require.Equal(t, VoteTally{TotalVotes: 1, YesVotes: 1}, first.Tally)

	_, err = svc.Cast(ctx, CastVoteInput{
		UserID: user.ID, ItemID: bill.ID, ItemType: "bill", Value: models.VoteNo, VerificationID: "v-2",
	})
	require.ErrorIs(t, err, ErrAlreadyVoted)

	var stored []models.Vote
	require.NoError(t, gdb.Where("user_id = ? AND item_id = ?", user.ID, bill.ID).Find(&stored).Error)
	require.Len(t, stored, 1)
	require.Equal(t, models.VoteYes, stored[0].Value)

	// points were awarded once
	var reloaded models.User
	require.NoError(t, gdb.First(&reloaded, user.ID).Error)
	require.Equal(t, PointsVoteCast, reloaded.CivicPoints)
}

func TestCastVoteSameItemDifferentTypes(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := NewVotingService(gdb, NewTallyService(gdb))
	ctx := context.Background()

	user := testutil.CreateUser(t, gdb, "bob")
	bill := testutil.CreateBill(t, gdb, "C-1", models.BillActive)
	petition := testutil.CreatePetition(t, gdb, user.ID, 100, 0)
	require.Equal(t, bill.ID, petition.ID)

	_, err := svc.Cast(ctx, CastVoteInput{UserID: user.ID, ItemID: bill.ID, ItemType: "bill", Value: 1, VerificationID: "v"})
	require.NoError(t, err)
	_, err = svc.Cast(ctx, CastVoteInput{UserID: user.ID, ItemID: petition.ID, ItemType: "petition", Value: -1, VerificationID: "v"})
	require.NoError(t, err)
}

func TestCastVoteValidation(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := NewVotingService(gdb, NewTallyService(gdb))
	ctx := context.Background()
	user := testutil.CreateUser(t, gdb, "carol")
	bill := testutil.CreateBill(t, gdb, "C-7", models.BillActive)

	tests := []struct {
		name string
		in   CastVoteInput
		want error
	}{
		{"bad type", CastVoteInput{UserID: user.ID, ItemID: bill.ID, ItemType: "story", Value: 1, VerificationID: "v"}, ErrInvalidInput},
		{"bad value", CastVoteInput{UserID: user.ID, ItemID: bill.ID, ItemType: "bill", Value: 2, VerificationID: "v"}, ErrInvalidInput},
		{"missing verification", CastVoteInput{UserID: user.ID, ItemID: bill.ID, ItemType: "bill", Value: 1}, ErrInvalidInput},
		{"zero item", CastVoteInput{UserID: user.ID, ItemType: "bill", Value: 1, VerificationID: "v"}, ErrInvalidInput},
		{"unknown item", CastVoteInput{UserID: user.ID, ItemID: 999, ItemType: "bill", Value: 1, VerificationID: "v"}, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Cast(ctx, tt.in)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestVoteHistory(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := NewVotingService(gdb, NewTallyService(gdb))
	ctx := context.Background()
	user := testutil.CreateUser(t, gdb, "dave")
	for _, n := range []string{"C-1", "C-2"} {
		b := testutil.CreateBill(t, gdb, n, models.BillActive)
		_, err := svc.Cast(ctx, CastVoteInput{UserID: user.ID, ItemID: b.ID, ItemType: "bill", Value: 0, VerificationID: "v"})
		require.NoError(t, err)
	}

	history, err := svc.History(ctx, user.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
}
