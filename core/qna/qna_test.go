package qna_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mentori/core/events"
	"github.com/trezcool/mentori/core/notification"
	"github.com/trezcool/mentori/core/qna"
	inmemdb "github.com/trezcool/mentori/storage/database/inmem"
	"github.com/trezcool/mentori/testutil"
)

func newService(t *testing.T) (*qna.Service, *testutil.Notifier) {
	testutil.FreezeTime(t, time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC))
	notifier := new(testutil.Notifier)
	repo := inmemdb.NewQnARepository(inmemdb.Open())
	return qna.NewService(repo, notifier, events.Discard, new(testutil.Logger)), notifier
}

func TestService_Answer_once(t *testing.T) {
	svc, notifier := newService(t)
	ctx := context.Background()

	q, err := svc.Ask(ctx, "mentee", qna.NewQuestion{Title: "2번 문제", Content: "풀이를 모르겠어요"})
	require.NoError(t, err)
	assert.False(t, q.Answered())

	answered, err := svc.Answer(ctx, "mentor", q, qna.NewAnswer{Content: "공식을 다시 봐요"})
	require.NoError(t, err)
	assert.True(t, answered.Answered())
	assert.Equal(t, "mentor", answered.AnsweredBy.String)

	// a stale copy still fails at the store
	_, err = svc.Answer(ctx, "other mentor", q, qna.NewAnswer{Content: "다른 답"})
	assert.Equal(t, qna.ErrAlreadyAnswered, err)
	_, err = svc.Answer(ctx, "other mentor", answered, qna.NewAnswer{Content: "다른 답"})
	assert.Equal(t, qna.ErrAlreadyAnswered, err)

	got, err := svc.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "공식을 다시 봐요", got.Answer.String)

	sent := notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, notification.KindQuestionAnswered, sent[0].Kind)
	assert.Equal(t, "mentee", sent[0].RecipientID)
}

func TestService_Delete(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	open, err := svc.Ask(ctx, "mentee", qna.NewQuestion{Title: "a", Content: "a"})
	require.NoError(t, err)
	closed, err := svc.Ask(ctx, "mentee", qna.NewQuestion{Title: "b", Content: "b"})
	require.NoError(t, err)
	_, err = svc.Answer(ctx, "mentor", closed, qna.NewAnswer{Content: "ok"})
	require.NoError(t, err)

	// stale copy of an answered question
	assert.Equal(t, qna.ErrAlreadyAnswered, svc.Delete(ctx, closed))
	require.NoError(t, svc.Delete(ctx, open))
	assert.Equal(t, qna.ErrNotFound, svc.Delete(ctx, open))

	answered := true
	list, err := svc.List(ctx, qna.QueryFilter{MenteeID: "mentee", Answered: &answered})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, closed.ID, list[0].ID)
}
