package echoapi_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mentori/core/notification"
	"github.com/trezcool/mentori/core/qna"
	"github.com/trezcool/mentori/core/user"
)

func Test_qnaApi(t *testing.T) {
	app := newTestApp(t)
	mentor := app.createUser(t, "mentor-1", "mentor@test.kr", "Mentor", user.RoleMentor)
	mentee := app.createUser(t, "mentee-1", "kim@test.kr", "Kim", user.RoleMentee)
	other := app.createUser(t, "mentee-2", "lee@test.kr", "Lee", user.RoleMentee)
	mentorToken, menteeToken, otherToken := app.token(t, mentor), app.token(t, mentee), app.token(t, other)

	rec := app.do(http.MethodPost, "/v1/mentees/mentee-1/questions", menteeToken, []byte(`{"title":"Quadratics","content":"Why is the discriminant negative?"}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var q qna.Question
	unmarshall(t, rec, &q)
	assert.False(t, q.Answered())

	answerPath := "/v1/questions/" + q.ID + "/answer"
	app.run(t, []httpTest{
		{
			name: "title required", method: http.MethodPost, path: "/v1/mentees/mentee-1/questions", token: menteeToken,
			body: []byte(`{"content":"?"}`), wantCode: http.StatusBadRequest, wantData: marshallObj(t, map[string]string{"title": "this field is required"}),
		},
		{name: "unanswered", path: "/v1/mentees/mentee-1/questions?answered=false", token: mentorToken, wantCode: http.StatusOK, wantData: marshallObj(t, []qna.Question{q})},
		{name: "answered", path: "/v1/mentees/mentee-1/questions?answered=true", token: mentorToken, wantCode: http.StatusOK, wantData: []byte(`[]`)},
		{name: "bad flag", path: "/v1/mentees/mentee-1/questions?answered=maybe", token: mentorToken, wantCode: http.StatusBadRequest},
		{name: "foreign", path: "/v1/questions/" + q.ID, token: otherToken, wantCode: http.StatusForbidden},
		{name: "mentee cannot answer", method: http.MethodPost, path: answerPath, token: menteeToken, body: []byte(`{"content":"self"}`), wantCode: http.StatusForbidden},
		{name: "answer", method: http.MethodPost, path: answerPath, token: mentorToken, body: []byte(`{"content":"b² < 4ac"}`), wantCode: http.StatusOK},
		{
			name: "answer twice", method: http.MethodPost, path: answerPath, token: mentorToken, body: []byte(`{"content":"again"}`),
			wantCode: http.StatusConflict, wantData: marshallObj(t, httpErr{Error: qna.ErrAlreadyAnswered.Error()}),
		},
	})

	got, err := app.QnASvc.Get(context.Background(), q.ID)
	require.NoError(t, err)
	assert.True(t, got.Answered())
	assert.Equal(t, "b² < 4ac", got.Answer.String)
	assert.Equal(t, mentor.ID, got.AnsweredBy.String)

	notifs, err := app.NotificationSvc.List(context.Background(), mentee.ID, true)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, notification.KindQuestionAnswered, notifs[0].Kind)

	// answered questions are kept
	rec = app.do(http.MethodDelete, "/v1/questions/"+q.ID, menteeToken)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.do(http.MethodPost, "/v1/mentees/mentee-1/questions", menteeToken, []byte(`{"title":"Typo","content":"never mind"}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	unmarshall(t, rec, &q)
	rec = app.do(http.MethodDelete, "/v1/questions/"+q.ID, menteeToken)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = app.do(http.MethodGet, "/v1/questions/"+q.ID, menteeToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_notificationApi(t *testing.T) {
	app := newTestApp(t)
	mentor := app.createUser(t, "mentor-1", "mentor@test.kr", "Mentor", user.RoleMentor)
	mentee := app.createUser(t, "mentee-1", "kim@test.kr", "Kim", user.RoleMentee)
	mentorToken, menteeToken := app.token(t, mentor), app.token(t, mentee)

	app.createAssignment(t, mentorToken, mentee.ID, newAssignmentBody)

	rec := app.do(http.MethodGet, "/v1/notifications?unread=true", menteeToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var notifs []notification.Notification
	unmarshall(t, rec, &notifs)
	require.Len(t, notifs, 1)
	n := notifs[0]
	assert.Equal(t, mentee.ID, n.RecipientID)
	assert.False(t, n.ReadAt.Valid)

	app.run(t, []httpTest{
		{name: "mentor has none", path: "/v1/notifications", token: mentorToken, wantCode: http.StatusOK, wantData: []byte(`[]`)},
		{name: "not the recipient", method: http.MethodPost, path: "/v1/notifications/" + n.ID + "/read", token: mentorToken, wantCode: http.StatusForbidden},
		{name: "unknown", method: http.MethodPost, path: "/v1/notifications/nope/read", token: menteeToken, wantCode: http.StatusNotFound},
		{name: "read", method: http.MethodPost, path: "/v1/notifications/" + n.ID + "/read", token: menteeToken, wantCode: http.StatusOK},
		{name: "no more unread", path: "/v1/notifications?unread=true", token: menteeToken, wantCode: http.StatusOK, wantData: []byte(`[]`)},
	})

	rec = app.do(http.MethodGet, "/v1/notifications", menteeToken)
	require.Equal(t, http.StatusOK, rec.Code)
	unmarshall(t, rec, &notifs)
	require.Len(t, notifs, 1)
	assert.True(t, notifs[0].ReadAt.Valid)
}
