package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"civicos/internal/models"
	"civicos/internal/testutil"

	"github.com/stretchr/testify/require"
)

func TestSchedulerRegistersJobs(t *testing.T) {
	gdb := testutil.OpenDB(t)
	s := NewScheduler(time.Minute)
	jobs := BackgroundJobs{
		Ingester:  NewBillIngester(gdb, false),
		FeedURL:   "",
		FeedCron:  "@every 30m",
		Trust:     NewTrustScoreService(gdb, 0),
		Petitions: NewPetitionService(gdb, nil, nil),
	}
	require.NoError(t, jobs.Register(s))
	require.Equal(t, []string{"close-expired-petitions", "trust-sweep"}, s.Jobs())

	creator := testutil.CreateUser(t, gdb, "creator")
	p := testutil.CreatePetition(t, gdb, creator.ID, 10, 0)
	require.NoError(t, gdb.Model(p).Update("deadline", time.Now().Add(-time.Hour)).Error)

	require.NoError(t, s.RunNow("close-expired-petitions"))
	var reloaded models.Petition
	require.NoError(t, gdb.First(&reloaded, p.ID).Error)
	require.Equal(t, models.PetitionClosed, reloaded.Status)

	require.Error(t, s.RunNow("missing"))
}

func TestSchedulerRejectsBadSchedule(t *testing.T) {
	s := NewScheduler(0)
	err := s.AddJob("broken", "not a schedule", func(context.Context) error { return errors.New("never") })
	require.Error(t, err)
	require.Empty(t, s.Jobs())
}
