package assignment_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/assignment"
	"github.com/trezcool/mentori/core/events"
	"github.com/trezcool/mentori/core/notification"
	inmemdb "github.com/trezcool/mentori/storage/database/inmem"
	"github.com/trezcool/mentori/testutil"
)

func newService(t *testing.T) (*assignment.Service, *testutil.Notifier, *testutil.Logger) {
	testutil.FreezeTime(t, time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC))
	notifier := new(testutil.Notifier)
	logger := new(testutil.Logger)
	repo := inmemdb.NewAssignmentRepository(inmemdb.Open())
	return assignment.NewService(repo, notifier, events.Discard, logger), notifier, logger
}

func create(t *testing.T, svc *assignment.Service, mentee string, start, end core.Date) assignment.Assignment {
	a, err := svc.Create(context.Background(), "mentor", mentee, assignment.NewAssignment{
		Subject: core.SubjectEnglish, Title: "단어 " + string(start), StartDate: start, EndDate: end,
	})
	require.NoError(t, err)
	return a
}

func TestService_Create_notifiesMentee(t *testing.T) {
	svc, notifier, _ := newService(t)
	a := create(t, svc, "mentee", "2024-03-05", "2024-03-07")

	sent := notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, notification.KindAssignmentCreated, sent[0].Kind)
	assert.Equal(t, "mentee", sent[0].RecipientID)
	assert.Contains(t, sent[0].Body, a.Title)
}

func TestService_Create_notifyFailureIsLogged(t *testing.T) {
	svc, notifier, logger := newService(t)
	notifier.Err = errors.New("smtp down")

	create(t, svc, "mentee", "2024-03-05", "2024-03-07")
	entries := logger.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "error", entries[0].Level)
}

func TestService_Update_keepsCompletion(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	a := create(t, svc, "mentee", "2024-03-05", "2024-03-07")

	a, err := svc.SetCompleted(ctx, a, true)
	require.NoError(t, err)

	content := "p.30 ~ p.35"
	updated, err := svc.Update(ctx, a, assignment.UpdateAssignment{
		Subject: core.SubjectEnglish, Title: "단어 암기", StartDate: "2024-03-05", EndDate: "2024-03-08", Content: &content,
	})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, core.Date("2024-03-08"), updated.EndDate)
	assert.Equal(t, content, updated.Content)
}

func TestService_RemindDue(t *testing.T) {
	svc, notifier, _ := newService(t)
	ctx := context.Background()

	create(t, svc, "m1", "2024-03-04", "2024-03-06")
	create(t, svc, "m2", "2024-03-06", "2024-03-06")
	done := create(t, svc, "m3", "2024-03-01", "2024-03-06")
	create(t, svc, "m4", "2024-03-01", "2024-03-07")
	_, err := svc.SetCompleted(ctx, done, true)
	require.NoError(t, err)

	before := len(notifier.Sent())
	n, err := svc.RemindDue(ctx, "2024-03-06")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var recipients []string
	for _, s := range notifier.Sent()[before:] {
		assert.Equal(t, notification.KindAssignmentDue, s.Kind)
		recipients = append(recipients, s.RecipientID)
	}
	assert.ElementsMatch(t, []string{"m1", "m2"}, recipients)
}

func TestService_Delete_dropsVerifications(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	a := create(t, svc, "mentee", "2024-03-05", "2024-03-07")

	_, err := svc.Verify(ctx, a, assignment.NewVerification{Content: "done"})
	require.NoError(t, err)
	ok, err := svc.HasVerification(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, svc.Delete(ctx, a))
	_, err = svc.Get(ctx, a.ID)
	assert.True(t, core.IsNotFound(err))
	ok, err = svc.HasVerification(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
