package services

import (
	"context"
	"fmt"
	"testing"

	"civicos/internal/models"
	"civicos/internal/testutil"

	"github.com/stretchr/testify/require"
)

func TestTallyNoVotes(t *testing.T) {
	gdb := testutil.OpenDB(t)
	tally, err := NewTallyService(gdb).Tally(context.Background(), models.ItemTypeBill, 99)
	require.NoError(t, err)
	require.Equal(t, VoteTally{}, tally)
}

func TestTallySumsToTotal(t *testing.T) {
	gdb := testutil.OpenDB(t)
	values := []int{1, 1, 1, -1, -1, 0, 1, 0}
	for i, v := range values {
		require.NoError(t, gdb.Create(&models.Vote{
			UserID: uint(i + 1), ItemID: 5, ItemType: models.ItemTypeBill, Value: v,
			ReceiptID: fmt.Sprintf("receipt-%d", i),
		}).Error)
	}
	// same item id under another type must not leak in
	require.NoError(t, gdb.Create(&models.Vote{
		UserID: 1, ItemID: 5, ItemType: models.ItemTypePost, Value: 1, ReceiptID: "other",
	}).Error)

	svc := NewTallyService(gdb)
	tally, err := svc.Tally(context.Background(), models.ItemTypeBill, 5)
	require.NoError(t, err)
	require.Equal(t, VoteTally{TotalVotes: 8, YesVotes: 4, NoVotes: 2, Abstentions: 2}, tally)
	require.Equal(t, tally.TotalVotes, tally.YesVotes+tally.NoVotes+tally.Abstentions)

	many, err := svc.TallyMany(context.Background(), models.ItemTypeBill, []uint{5, 6})
	require.NoError(t, err)
	require.Equal(t, tally, many[5])
	require.Equal(t, VoteTally{}, many[6])
}
