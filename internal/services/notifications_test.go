package services

import (
	"context"
	"testing"

	"civicos/internal/models"
	"civicos/internal/testutil"

	"github.com/stretchr/testify/require"
)

func TestNotificationLifecycle(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := NewNotificationService(gdb)
	ctx := context.Background()
	owner := testutil.CreateUser(t, gdb, "owner")
	other := testutil.CreateUser(t, gdb, "other")

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Notify(ctx, &models.Notification{UserID: owner.ID, Type: models.NotificationCommentPost, Message: "hi"}))
	}
	list, err := svc.List(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)

	require.ErrorIs(t, svc.MarkRead(ctx, other.ID, list[0].ID), ErrNotFound)
	require.NoError(t, svc.MarkRead(ctx, owner.ID, list[0].ID))
	n, err := svc.UnreadCount(ctx, owner.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	require.NoError(t, svc.MarkAllRead(ctx, owner.ID))
	n, err = svc.UnreadCount(ctx, owner.ID)
	require.NoError(t, err)
	require.Zero(t, n)

	require.ErrorIs(t, svc.Delete(ctx, other.ID, list[1].ID), ErrNotFound)
	require.NoError(t, svc.Delete(ctx, owner.ID, list[1].ID))
	list, err = svc.List(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
}
