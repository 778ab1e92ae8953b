package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"civicos/internal/models"
	"civicos/internal/testutil"

	"github.com/stretchr/testify/require"
)

type goalMail struct {
	email      string
	title      string
	signatures int
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []goalMail
}

func (m *recordingMailer) SendPetitionGoalReached(email, username, title string, signatures int, link string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, goalMail{email: email, title: title, signatures: signatures})
}

func TestSignPetitionTwiceIncrementsOnce(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := NewPetitionService(gdb, NewNotificationService(gdb), nil)
	ctx := context.Background()

	creator := testutil.CreateUser(t, gdb, "creator")
	signer := testutil.CreateUser(t, gdb, "signer")
	p := testutil.CreatePetition(t, gdb, creator.ID, 500, 10)

	res, err := svc.Sign(ctx, signer.ID, p.ID, "ver-1")
	require.NoError(t, err)
	require.Equal(t, 11, res.CurrentSignatures)
	require.Equal(t, UrgencyLow, res.Urgency)

	_, err = svc.Sign(ctx, signer.ID, p.ID, "ver-1")
	require.ErrorIs(t, err, ErrAlreadySigned)

	var reloaded models.Petition
	require.NoError(t, gdb.First(&reloaded, p.ID).Error)
	require.Equal(t, 11, reloaded.CurrentSignatures)

	var sigs int64
	require.NoError(t, gdb.Model(&models.PetitionSignature{}).Where("petition_id = ?", p.ID).Count(&sigs).Error)
	require.Equal(t, int64(1), sigs)
}

func TestSignPetitionErrors(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := NewPetitionService(gdb, nil, nil)
	ctx := context.Background()

	creator := testutil.CreateUser(t, gdb, "creator")
	open := testutil.CreatePetition(t, gdb, creator.ID, 100, 0)

	closed := testutil.CreatePetition(t, gdb, creator.ID, 100, 0)
	require.NoError(t, gdb.Model(closed).Update("status", models.PetitionClosed).Error)

	expired := testutil.CreatePetition(t, gdb, creator.ID, 100, 0)
	require.NoError(t, gdb.Model(expired).Update("deadline", time.Now().Add(-time.Hour)).Error)

	_, err := svc.Sign(ctx, creator.ID, open.ID, "  ")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Sign(ctx, creator.ID, 9999, "v")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Sign(ctx, creator.ID, closed.ID, "v")
	require.ErrorIs(t, err, ErrPetitionClosed)

	_, err = svc.Sign(ctx, creator.ID, expired.ID, "v")
	require.ErrorIs(t, err, ErrPetitionClosed)
}

func TestSignPetitionReachesGoal(t *testing.T) {
	gdb := testutil.OpenDB(t)
	mailer := &recordingMailer{}
	notifications := NewNotificationService(gdb)
	svc := NewPetitionService(gdb, notifications, mailer)
	ctx := context.Background()

	creator := testutil.CreateUser(t, gdb, "creator")
	signer := testutil.CreateUser(t, gdb, "signer")
	p := testutil.CreatePetition(t, gdb, creator.ID, 5, 4)

	res, err := svc.Sign(ctx, signer.ID, p.ID, "v")
	require.NoError(t, err)
	require.True(t, res.GoalReached)
	require.Equal(t, UrgencyCritical, res.Urgency)

	var reloaded models.Petition
	require.NoError(t, gdb.First(&reloaded, p.ID).Error)
	require.Equal(t, models.PetitionSuccessful, reloaded.Status)

	require.Len(t, mailer.sent, 1)
	require.Equal(t, "creator@example.org", mailer.sent[0].email)
	require.Equal(t, 5, mailer.sent[0].signatures)

	unread, err := notifications.UnreadCount(ctx, creator.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), unread)

	// signing a successful petition is still allowed and does not re-announce
	other := testutil.CreateUser(t, gdb, "other")
	res, err = svc.Sign(ctx, other.ID, p.ID, "v")
	require.NoError(t, err)
	require.False(t, res.GoalReached)
	require.Len(t, mailer.sent, 1)
}

func TestCreatePetition(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := NewPetitionService(gdb, nil, nil)
	ctx := context.Background()
	creator := testutil.CreateUser(t, gdb, "creator")

	_, err := svc.Create(ctx, CreatePetitionInput{CreatorID: creator.ID, Title: "", TargetSignatures: 10})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Create(ctx, CreatePetitionInput{CreatorID: creator.ID, Title: "x", TargetSignatures: 0})
	require.ErrorIs(t, err, ErrInvalidInput)

	deadline := time.Now().Add(48 * time.Hour)
	v, err := svc.Create(ctx, CreatePetitionInput{
		CreatorID:        creator.ID,
		Title:            "Safer crossings",
		Description:      "Add **crosswalks** near schools.",
		TargetSignatures: 100,
		Deadline:         &deadline,
	})
	require.NoError(t, err)
	require.Contains(t, v.DescriptionHTML, "<strong>crosswalks</strong>")
	require.Equal(t, UrgencyLow, v.Urgency)
	require.NotNil(t, v.DaysLeft)
	require.Equal(t, 2, *v.DaysLeft)

	list, err := svc.List(ctx, models.PetitionActive)
	require.NoError(t, err)
	require.Len(t, list, 1)

	var reloaded models.User
	require.NoError(t, gdb.First(&reloaded, creator.ID).Error)
	require.Equal(t, PointsPetitionCreated, reloaded.CivicPoints)
}

func TestCloseExpiredPetitions(t *testing.T) {
	gdb := testutil.OpenDB(t)
	notifications := NewNotificationService(gdb)
	svc := NewPetitionService(gdb, notifications, nil)
	ctx := context.Background()

	creator := testutil.CreateUser(t, gdb, "creator")
	testutil.CreatePetition(t, gdb, creator.ID, 100, 0)
	expired := testutil.CreatePetition(t, gdb, creator.ID, 100, 3)
	require.NoError(t, gdb.Model(expired).Update("deadline", time.Now().Add(-time.Minute)).Error)

	n, err := svc.CloseExpired(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	var reloaded models.Petition
	require.NoError(t, gdb.First(&reloaded, expired.ID).Error)
	require.Equal(t, models.PetitionClosed, reloaded.Status)

	n, err = svc.CloseExpired(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestCloseExpiredLogsNotifyFailure(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := NewPetitionService(gdb, NewNotificationService(gdb), nil)
	creator := testutil.CreateUser(t, gdb, "creator")
	expired := testutil.CreatePetition(t, gdb, creator.ID, 100, 3)
	require.NoError(t, gdb.Model(expired).Update("deadline", time.Now().Add(-time.Minute)).Error)
	require.NoError(t, gdb.Migrator().DropTable(&models.Notification{}))

	logs := captureLogs(t)
	n, err := svc.CloseExpired(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Contains(t, logs.String(), "failed to notify petition creator")
	require.Contains(t, logs.String(), `"level":"error"`)
}
